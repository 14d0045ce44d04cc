package service_test

import (
	"context"
	"encoding/base64"
	"net"
	"os"
	"path/filepath"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/WangQiHao-Charlie/screpd/internal/service"
	"github.com/WangQiHao-Charlie/screpd/pkg/driver"
	"github.com/WangQiHao-Charlie/screpd/pkg/screp"
)

func startServer(t *testing.T, nop *driver.Nop) *service.Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	runner := screp.New(nop, screp.Config{ScrepPath: "screp"})
	service.Register(srv, service.NewScrepServer(runner, []string{"stdin"}, map[string]string{"impl": "exec"}))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return service.NewClient(conn)
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	return s
}

func TestRun_Replay(t *testing.T) {
	nop := &driver.Nop{Resp: driver.ExecResp{Stdout: "skipping typeID 7\n{\"Header\":{\"Map\":\"Polypoid\"}}", ExitCode: 0}}
	client := startServer(t, nop)

	out, err := client.Run(context.Background(), mustStruct(t, map[string]any{
		"replay":  base64.StdEncoding.EncodeToString([]byte("rep-bytes")),
		"options": map[string]any{"includeCommands": true},
	}))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	f := out.GetFields()
	if !f["hasValidResult"].GetBoolValue() {
		t.Fatalf("hasValidResult = false: %v", out)
	}
	if got := f["diagnostics"].GetStringValue(); got != "skipping typeID 7" {
		t.Fatalf("diagnostics = %q", got)
	}
	if got := f["exitCode"].GetNumberValue(); got != 0 {
		t.Fatalf("exitCode = %v, want 0", got)
	}
	header := f["data"].GetStructValue().GetFields()["Header"].GetStructValue()
	if got := header.GetFields()["Map"].GetStringValue(); got != "Polypoid" {
		t.Fatalf("map = %q", got)
	}
	if !f["options"].GetStructValue().GetFields()["includeCommands"].GetBoolValue() {
		t.Fatalf("resolved options lost includeCommands")
	}

	reqs := nop.Requests()
	if len(reqs) != 1 || string(reqs[0].Stdin) != "rep-bytes" {
		t.Fatalf("driver requests = %+v", reqs)
	}
	if last := reqs[0].Command[len(reqs[0].Command)-1]; last != screp.SwitchStdin {
		t.Fatalf("last arg = %q, want -stdin", last)
	}
}

func TestRun_Path(t *testing.T) {
	p := filepath.Join(t.TempDir(), "game.rep")
	if err := os.WriteFile(p, []byte("rep"), 0o644); err != nil {
		t.Fatal(err)
	}
	nop := &driver.Nop{Resp: driver.ExecResp{Stdout: "Failed to parse replay", ExitCode: 2}}
	client := startServer(t, nop)

	out, err := client.Run(context.Background(), mustStruct(t, map[string]any{"path": p}))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	f := out.GetFields()
	if f["hasValidResult"].GetBoolValue() {
		t.Fatalf("hasValidResult = true for failed parse")
	}
	if _, ok := f["data"].GetKind().(*structpb.Value_NullValue); !ok {
		t.Fatalf("data = %v, want null", f["data"])
	}
	if got := f["exitCode"].GetNumberValue(); got != 2 {
		t.Fatalf("exitCode = %v, want 2", got)
	}
}

func TestRun_Errors(t *testing.T) {
	client := startServer(t, &driver.Nop{})
	cases := []struct {
		name string
		req  map[string]any
		code codes.Code
	}{
		{"missing input", map[string]any{}, codes.InvalidArgument},
		{"both inputs", map[string]any{"path": "/x.rep", "replay": ""}, codes.InvalidArgument},
		{"bad base64", map[string]any{"replay": "!!!"}, codes.InvalidArgument},
		{"invalid options", map[string]any{"replay": "", "options": map[string]any{"includeMapTiles": true}}, codes.InvalidArgument},
		{"unknown option", map[string]any{"replay": "", "options": map[string]any{"bogus": true}}, codes.InvalidArgument},
		{"missing file", map[string]any{"path": filepath.Join(t.TempDir(), "missing.rep")}, codes.NotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := client.Run(context.Background(), mustStruct(t, tc.req))
			if got := status.Code(err); got != tc.code {
				t.Fatalf("code = %v, want %v (%v)", got, tc.code, err)
			}
		})
	}
}

func TestVersionAndDiscover(t *testing.T) {
	nop := &driver.Nop{Resp: driver.ExecResp{Stdout: "screp version: v1.12.5\nFoo: bar\n"}}
	client := startServer(t, nop)

	v, err := client.Version(context.Background())
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if got := v.GetFields()["screp version"].GetStringValue(); got != "v1.12.5" {
		t.Fatalf("screp version = %q", got)
	}
	if _, ok := v.GetFields()["Foo"]; ok {
		t.Fatalf("unknown key leaked into version: %v", v)
	}

	d, err := client.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	f := d.GetFields()
	if f["command"].GetStringValue() != "screp" {
		t.Fatalf("command = %v", f["command"])
	}
	if got := f["metadata"].GetStructValue().GetFields()["impl"].GetStringValue(); got != "exec" {
		t.Fatalf("metadata impl = %q", got)
	}
	if vals := f["features"].GetListValue().GetValues(); len(vals) != 1 || vals[0].GetStringValue() != "stdin" {
		t.Fatalf("features = %v", f["features"])
	}
}
