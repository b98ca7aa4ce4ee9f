// Package client provides the `interticle` command-line client.
//
// The CLI mints and decodes ids over gRPC and manages authors and articles
// over the HTTP API. It is primarily intended for developers and operators.
//
// Installation
//
//	go install github.com/rzbill/interticle/cmd/interticle@latest
//
// # Address configuration
//
// The embedding binary supplies Endpoints. The standalone binary reads
// --api-url / INTERTICLE_API_URL (default http://127.0.0.1:8080) and
// --grpc-target / INTERTICLE_GRPC_TARGET (default 127.0.0.1:50051).
//
// Usage
//
//	interticle id new -n 5
//	interticle id new --format base58
//	interticle id decode 1732546465218199552
//	interticle id decode --radix 2 --local 1100000...
//
//	interticle author create --name ada
//	interticle article publish --title "Hello" --author 1732546465218199551
//	interticle article get 1732546465218199552
//	interticle article list --filter 'title.startsWith("He")' --limit 20
//	interticle article list --reverse --after 1732546465218199552
//
// Notes
//
//   - Ids are printed as decimal strings; JSON output never carries them as
//     numbers.
//   - list prints the page and a "next" cursor; pass it to --after to
//     continue. An absent "next" means the listing is complete.
package client
