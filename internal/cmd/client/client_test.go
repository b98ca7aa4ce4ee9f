package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	snowflakev1 "github.com/rzbill/interticle/internal/api/snowflakev1"
	cfgpkg "github.com/rzbill/interticle/internal/config"
	"github.com/rzbill/interticle/internal/runtime"
	httpserver "github.com/rzbill/interticle/internal/server/http"
	logpkg "github.com/rzbill/interticle/pkg/log"
	"github.com/rzbill/interticle/pkg/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// snowflakeStub mints sequential ids at a fixed timestamp.
type snowflakeStub struct {
	snowflakev1.UnimplementedSnowflakeServer
	seq uint16
}

func (s *snowflakeStub) NextId(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	id := snowflake.Compose(1000, 3, s.seq)
	s.seq++
	return wrapperspb.String(id.String()), nil
}

func (s *snowflakeStub) Decode(_ context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	id, err := snowflake.Parse(in.GetValue())
	if err != nil {
		return nil, err
	}
	return structpb.NewStruct(map[string]any{"id": id.String(), "originId": int64(id.OriginID())})
}

func startGRPCStub(t *testing.T, svc snowflakev1.SnowflakeServer) (addr string, stop func()) {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	gs := grpc.NewServer()
	snowflakev1.RegisterSnowflakeServer(gs, svc)
	done := make(chan struct{})
	go func() {
		_ = gs.Serve(l)
		close(done)
	}()
	stop = func() {
		gs.GracefulStop()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			gs.Stop()
		}
	}
	return l.Addr().String(), stop
}

func startHTTP(t *testing.T) string {
	t.Helper()
	cfg := cfgpkg.Default()
	cfg.DataDir = t.TempDir()
	cfg.Fsync = "never"
	rt, err := runtime.Open(runtime.Options{Config: cfg})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	ts := httptest.NewServer(httpserver.New(rt, logpkg.NewNopLogger()).Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func run(t *testing.T, ep Endpoints, args ...string) (string, error) {
	t.Helper()
	root := NewRoot(ep)
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestIDNewPrintsIDs(t *testing.T) {
	addr, stop := startGRPCStub(t, &snowflakeStub{})
	defer stop()
	ep := Endpoints{GRPCTarget: func() string { return addr }}

	out, err := run(t, ep, "id", "new", "-n", "3")
	require.NoError(t, err)
	lines := strings.Fields(out)
	require.Len(t, lines, 3)
	for i, line := range lines {
		id, err := snowflake.Parse(line)
		require.NoError(t, err)
		assert.Equal(t, uint16(i), id.SequenceID())
	}

	out, err = run(t, ep, "id", "new", "--format", "binary")
	require.NoError(t, err)
	assert.Len(t, strings.TrimSpace(out), 64)

	_, err = run(t, ep, "id", "new", "--format", "roman")
	assert.Error(t, err)
}

func TestIDDecode(t *testing.T) {
	addr, stop := startGRPCStub(t, &snowflakeStub{})
	defer stop()
	ep := Endpoints{GRPCTarget: func() string { return addr }}
	id := snowflake.Compose(1000, 3, 0)

	out, err := run(t, ep, "id", "decode", id.String())
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, id.String(), m["id"])
	assert.EqualValues(t, 3, m["originId"])

	hex, err := id.Serialize(16)
	require.NoError(t, err)
	out, err = run(t, ep, "id", "decode", "--local", "--radix", "16", hex)
	require.NoError(t, err)
	m = nil
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, id.String(), m["id"])
	assert.EqualValues(t, snowflake.Epoch+1000, m["timestampMs"])

	_, err = run(t, ep, "id", "decode", "--radix", "7", "1")
	assert.ErrorIs(t, err, snowflake.ErrInvalidArgument)
}

func TestAuthorAndArticleCommands(t *testing.T) {
	url := startHTTP(t)
	ep := Endpoints{HTTPURL: func() string { return url }}

	out, err := run(t, ep, "author", "create", "--name", "ada")
	require.NoError(t, err)
	var author map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &author))
	authorID, _ := author["id"].(string)
	require.NotEmpty(t, authorID)

	out, err = run(t, ep, "article", "publish", "--title", "Go things", "--author", authorID)
	require.NoError(t, err)
	var article map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &article))
	assert.Equal(t, authorID, article["author_id"])
	articleID, _ := article["id"].(string)

	out, err = run(t, ep, "article", "get", articleID)
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "Go things"`)

	out, err = run(t, ep, "article", "list", "--filter", `title.startsWith("Go")`)
	require.NoError(t, err)
	assert.Contains(t, out, articleID)

	_, err = run(t, ep, "article", "get", "42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 404")
}
