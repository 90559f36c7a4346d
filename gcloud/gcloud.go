// Package gcloud holds what the Google Cloud backends share: client options
// from backend config and gRPC status inspection.
package gcloud

import (
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kbukum/voxlate/provider"
)

// ProviderName is the registry name of every Google backend.
const ProviderName = "google"

// ClientOptions builds client options from a backend's config:
//
//	credentials_file: path to a service account key (default: ADC)
//	endpoint:         API endpoint override
//	api_key:          API key, for the translation API
func ClientOptions(opts provider.Options) []option.ClientOption {
	var out []option.ClientOption
	if f := opts.String("credentials_file", ""); f != "" {
		out = append(out, option.WithCredentialsFile(f))
	}
	if ep := opts.String("endpoint", ""); ep != "" {
		out = append(out, option.WithEndpoint(ep))
	}
	if key := opts.String("api_key", ""); key != "" {
		out = append(out, option.WithAPIKey(key))
	}
	return out
}

// Code returns the gRPC code carried by err, codes.OK for nil and
// codes.Unknown for errors without a status.
func Code(err error) codes.Code {
	return status.Code(err)
}

// Details describes err for AppError details.
func Details(err error) map[string]any {
	st, _ := status.FromError(err)
	return map[string]any{
		"grpc_code":    st.Code().String(),
		"grpc_message": st.Message(),
	}
}
