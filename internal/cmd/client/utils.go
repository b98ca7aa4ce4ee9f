package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	transports "github.com/rzbill/interticle/internal/cmd/client/transports"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// requestTimeout bounds each CLI call.
const requestTimeout = 10 * time.Second

// Endpoints resolves server addresses at command run time (from flags, env,
// or defaults, as the embedding binary decides).
type Endpoints struct {
	// HTTPURL returns the base API URL, e.g. http://127.0.0.1:8080.
	HTTPURL func() string
	// GRPCTarget returns the gRPC target, e.g. 127.0.0.1:50051.
	GRPCTarget func() string
}

func (e Endpoints) httpURL() string {
	if e.HTTPURL != nil {
		if v := e.HTTPURL(); v != "" {
			return v
		}
	}
	return "http://127.0.0.1:8080"
}

func (e Endpoints) grpcTarget() string {
	if e.GRPCTarget != nil {
		if v := e.GRPCTarget(); v != "" {
			return v
		}
	}
	return "127.0.0.1:50051"
}

// dialer returns a gRPC dial func with insecure transport for local/dev.
func (e Endpoints) dialer() func(ctx context.Context) (*grpc.ClientConn, error) {
	return func(ctx context.Context) (*grpc.ClientConn, error) {
		return grpc.NewClient(e.grpcTarget(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
}

func (e Endpoints) idTransport() transports.IDTransport {
	return transports.NewGrpcTransport(e.dialer())
}

func (e Endpoints) articlesTransport() transports.ArticlesTransport {
	return transports.NewHTTPTransport(e.httpURL(), &http.Client{Timeout: requestTimeout})
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, requestTimeout)
}

// printJSON writes v as indented JSON. Ids render as decimal strings.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
