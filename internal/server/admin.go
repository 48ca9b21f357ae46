package server

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"

	"github.com/SimonWaldherr/slotdbd/internal/db"
	"github.com/SimonWaldherr/slotdbd/internal/storage/pager"
)

// jsonCodec lets the admin surface speak plain JSON over gRPC's framing
// instead of requiring a protobuf toolchain, matching tinySQL's manual
// grpc.ServiceDesc + JSON codec approach (cmd/server/main.go).
type jsonCodec struct{}

func (jsonCodec) Name() string                      { return "json" }
func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// StatusRequest is empty: the admin surface takes no parameters (§4.12:
// read-only, schema-only, no predicate evaluation).
type StatusRequest struct{}

// TableStatus reports one table's catalog shape and live-row count.
type TableStatus struct {
	Name      string `json:"name"`
	Columns   int    `json:"columns"`
	LiveRows  int    `json:"live_rows"`
	RootPage  uint32 `json:"root_page"`
}

// StatusResponse is the admin Status RPC's payload: counts only, never row
// data, so it cannot be used to read or infer user content.
type StatusResponse struct {
	TableCount int           `json:"table_count"`
	IndexCount int           `json:"index_count"`
	PageCount  int           `json:"page_count"`
	Tables     []TableStatus `json:"tables"`
}

// AdminServer implements the Status RPC against a live database.
type AdminServer struct {
	database *db.Database
}

func NewAdminServer(database *db.Database) *AdminServer {
	return &AdminServer{database: database}
}

// Status computes live-row counts by scanning each table's root page under
// the global database mutex, the same access path the executor uses.
func (a *AdminServer) Status(ctx context.Context, _ *StatusRequest) (*StatusResponse, error) {
	a.database.Lock()
	defer a.database.Unlock()

	tables := a.database.Catalog.Tables()
	resp := &StatusResponse{
		TableCount: len(tables),
		IndexCount: len(a.database.Catalog.Indexes()),
		PageCount:  a.database.Pager.NumPages(),
	}
	for _, t := range tables {
		page := pager.Wrap(a.database.Pager.GetPage(int(t.RootPageNum)))
		resp.Tables = append(resp.Tables, TableStatus{
			Name:     t.Name,
			Columns:  len(t.Columns),
			LiveRows: page.LiveCount(),
			RootPage: t.RootPageNum,
		})
	}
	return resp, nil
}

func registerAdminServer(s *grpc.Server, srv *AdminServer) {
	s.RegisterService(&grpc.ServiceDesc{
		ServiceName: "slotdbd.Admin",
		HandlerType: (*AdminServer)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "Status", Handler: adminStatusHandler},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "slotdbd",
	}, srv)
}

func adminStatusHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(StatusRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(*AdminServer).Status(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/slotdbd.Admin/Status"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(*AdminServer).Status(ctx, req.(*StatusRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// NewAdminGRPCServer builds a *grpc.Server with the JSON codec registered
// and the Status RPC attached, ready for (*grpc.Server).Serve on a
// separate listener from the SQL wire protocol (§4.12).
func NewAdminGRPCServer(database *db.Database) *grpc.Server {
	gs := grpc.NewServer()
	registerAdminServer(gs, NewAdminServer(database))
	return gs
}
