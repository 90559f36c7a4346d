// Package httpclient provides the HTTP client shared by the REST speech
// backends (Deepgram, ElevenLabs): base URL resolution, header and token
// authentication, status classification and optional retry of transport
// failures.
//
//	client, err := httpclient.New(httpclient.Config{
//	    Name:    "deepgram",
//	    BaseURL: "https://api.deepgram.com",
//	    Auth:    httpclient.TokenAuth(key),
//	})
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/v1/listen",
//	    Body:   wav,
//	})
package httpclient
