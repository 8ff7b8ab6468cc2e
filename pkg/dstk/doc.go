// Package dstk provides an HTTP client for the Data Science Toolkit API.
//
// # Overview
//
// The Data Science Toolkit (DSTK) is a geographic and text-analysis web
// service. This package wraps each of its endpoints in a typed method: the
// client serializes the input, performs one HTTP round trip, checks the body
// for an embedded error and decodes the payload into Go structs. All the
// analysis happens on the server.
//
// # Architecture
//
//   - client.go: construction, version gate, endpoint methods, transport
//   - types.go: payloads mirroring the DSTK API schema
//   - multipart.go: multipart/form-data encoding for file2text uploads
//   - errors.go: the error types every method returns
//
// # Client Usage
//
//	client, err := dstk.New(ctx, dstk.WithBaseURL("http://localhost:8080"))
//	if err != nil {
//		log.Fatalf("connect to dstk: %v", err)
//	}
//
//	locations, err := client.IP2Coordinates(ctx, "67.169.73.113")
//	if err != nil {
//		log.Printf("ip lookup failed: %v", err)
//	}
//
//	text, err := client.File2TextFromPath(ctx, "scan.png")
//
// # Base Address
//
// The service address is resolved once, in New:
//
//  1. WithBaseURL, when given
//  2. the DSTK_API_BASE environment variable
//  3. DefaultBaseURL
//
// A missing scheme defaults to http://. A path prefix is kept, so servers
// mounted under a sub-path work.
//
// # Version Gate
//
// New issues GET /info and refuses servers reporting a version below
// RequiredVersion. Pass WithVersionCheck(false) to skip the round trip; the
// first real call then surfaces any problem.
//
// # Endpoints
//
// Batch endpoints send a JSON array and are variadic, so a single value and a
// one-element list are the same request:
//
//   - POST /ip2coordinates, /street2coordinates: keyed by input
//   - POST /coordinates2politics, /coordinates2statistics: one entry per coordinate
//
// Free-text endpoints send the text or HTML verbatim as the body:
//
//   - POST /text2places, /text2people, /text2times
//   - POST /text2sentences, /text2sentiment
//   - POST /html2text, /html2story
//
// Others:
//
//   - GET /maps/api/geocode/json: Google-compatible geocoder
//   - POST /file2text: multipart upload, plain text reply
//
// # Error Handling
//
// Once a request is sent, every method fails with one of four types, all
// usable with errors.As:
//
//   - *UnreachableServerError: transport failure, or /info did not answer
//   - *IncompatibleServerError: /info version below RequiredVersion
//   - *RemoteServiceError: the body held an "error" member; Error() returns
//     the server's message unchanged
//   - *MalformedResponseError: the body did not match the endpoint's shape
//
// The server reports failures as HTTP 500 with {"error": "..."}, so the
// error member is checked before the status code. file2text replies are
// plain text; they are only checked for an error member when the server
// marks them as JSON or the status is 4xx/5xx.
//
// Errors raised before anything is sent stay outside these types: a nil
// Client, a request that cannot be encoded, or a File2TextFromPath file that
// cannot be read (errors.Is(err, fs.ErrNotExist) works on the last).
//
// Nothing is retried.
//
// # Thread Safety
//
// A Client is immutable after New and safe for concurrent use, provided the
// supplied *http.Client is.
package dstk
