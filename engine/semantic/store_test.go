package semantic

import (
	"context"
	"errors"
	"testing"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"

	"github.com/kactuary/actuary-rag/engine/domain"
)

// --- mocks ---

type mockPoints struct {
	upsertReq   *pb.UpsertPoints
	upsertErr   error
	deleteReq   *pb.DeletePoints
	deleteErr   error
	searchResp  *pb.SearchResponse
	searchErr   error
	scrollResps []*pb.ScrollResponse
	scrollCalls int
	scrollErr   error
}

func (m *mockPoints) Upsert(_ context.Context, in *pb.UpsertPoints, _ ...grpc.CallOption) (*pb.PointsOperationResponse, error) {
	m.upsertReq = in
	return &pb.PointsOperationResponse{}, m.upsertErr
}

func (m *mockPoints) Delete(_ context.Context, in *pb.DeletePoints, _ ...grpc.CallOption) (*pb.PointsOperationResponse, error) {
	m.deleteReq = in
	return &pb.PointsOperationResponse{}, m.deleteErr
}

func (m *mockPoints) Search(_ context.Context, _ *pb.SearchPoints, _ ...grpc.CallOption) (*pb.SearchResponse, error) {
	return m.searchResp, m.searchErr
}

func (m *mockPoints) Scroll(_ context.Context, _ *pb.ScrollPoints, _ ...grpc.CallOption) (*pb.ScrollResponse, error) {
	if m.scrollErr != nil {
		return nil, m.scrollErr
	}
	resp := m.scrollResps[m.scrollCalls]
	m.scrollCalls++
	return resp, nil
}

type mockCollections struct {
	listResp  *pb.ListCollectionsResponse
	listErr   error
	createErr error
	created   bool
	getResp   *pb.GetCollectionInfoResponse
	getErr    error
}

func (m *mockCollections) List(_ context.Context, _ *pb.ListCollectionsRequest, _ ...grpc.CallOption) (*pb.ListCollectionsResponse, error) {
	return m.listResp, m.listErr
}

func (m *mockCollections) Create(_ context.Context, _ *pb.CreateCollection, _ ...grpc.CallOption) (*pb.CollectionOperationResponse, error) {
	m.created = true
	return &pb.CollectionOperationResponse{Result: true}, m.createErr
}

func (m *mockCollections) Get(_ context.Context, _ *pb.GetCollectionInfoRequest, _ ...grpc.CallOption) (*pb.GetCollectionInfoResponse, error) {
	return m.getResp, m.getErr
}

// --- tests ---

func TestPointID_Deterministic(t *testing.T) {
	a := PointID("KICS .pdf_p3_0123456789abcdef")
	b := PointID("KICS .pdf_p3_0123456789abcdef")
	if a != b {
		t.Fatalf("point id not deterministic: %s vs %s", a, b)
	}
	if a == PointID("other") {
		t.Fatal("distinct record ids mapped to same point id")
	}
}

func TestEnsureCollection_AlreadyExists(t *testing.T) {
	cols := &mockCollections{
		listResp: &pb.ListCollectionsResponse{
			Collections: []*pb.CollectionDescription{{Name: "actuary-docs"}},
		},
	}
	vs := NewWithClients(&mockPoints{}, cols, "actuary-docs")
	if err := vs.EnsureCollection(context.Background(), 1536); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cols.created {
		t.Fatal("collection recreated despite existing")
	}
}

func TestEnsureCollection_Creates(t *testing.T) {
	cols := &mockCollections{listResp: &pb.ListCollectionsResponse{}}
	vs := NewWithClients(&mockPoints{}, cols, "actuary-docs")
	if err := vs.EnsureCollection(context.Background(), 1536); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cols.created {
		t.Fatal("collection was not created")
	}
}

func TestUpsert_PayloadShape(t *testing.T) {
	points := &mockPoints{}
	vs := NewWithClients(points, &mockCollections{}, "actuary-docs")

	rec := domain.Record{
		ID:        "KICS .pdf_p3_0123456789abcdef",
		FileName:  "KICS 해설서.pdf",
		Page:      3,
		Text:      "요구자본의 산출",
		Embedding: []float32{0.1, 0.2},
	}
	if err := vs.Upsert(context.Background(), []domain.Record{rec}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if got := len(points.upsertReq.GetPoints()); got != 1 {
		t.Fatalf("expected 1 point, got %d", got)
	}
	p := points.upsertReq.GetPoints()[0]
	if p.GetId().GetUuid() != PointID(rec.ID) {
		t.Fatalf("point id mismatch: %s", p.GetId().GetUuid())
	}
	payload := p.GetPayload()
	if payload["record_id"].GetStringValue() != rec.ID {
		t.Fatal("record_id missing from payload")
	}
	if payload["file_name"].GetStringValue() != rec.FileName {
		t.Fatal("file_name missing from payload")
	}
	if payload["page"].GetIntegerValue() != 3 {
		t.Fatal("page missing from payload")
	}
	if payload["text"].GetStringValue() != rec.Text {
		t.Fatal("text missing from payload")
	}
}

func TestUpsert_Empty(t *testing.T) {
	points := &mockPoints{}
	vs := NewWithClients(points, &mockCollections{}, "actuary-docs")
	if err := vs.Upsert(context.Background(), nil); err != nil {
		t.Fatalf("Upsert(nil): %v", err)
	}
	if points.upsertReq != nil {
		t.Fatal("upsert issued for empty input")
	}
}

func TestSearch_ParsesCandidates(t *testing.T) {
	points := &mockPoints{
		searchResp: &pb.SearchResponse{
			Result: []*pb.ScoredPoint{
				{
					Score: 0.83,
					Payload: map[string]*pb.Value{
						"record_id": {Kind: &pb.Value_StringValue{StringValue: "KICS .pdf_p3_aa"}},
						"file_name": {Kind: &pb.Value_StringValue{StringValue: "KICS 해설서.pdf"}},
						"page":      {Kind: &pb.Value_IntegerValue{IntegerValue: 3}},
						"text":      {Kind: &pb.Value_StringValue{StringValue: "요구자본"}},
					},
				},
			},
		},
	}
	vs := NewWithClients(points, &mockCollections{}, "actuary-docs")

	got, err := vs.Search(context.Background(), []float32{0.1}, 20)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	c := got[0]
	if c.FileName != "KICS 해설서.pdf" || c.Page != 3 || c.Score != 0.83 || c.Text != "요구자본" {
		t.Fatalf("bad candidate: %+v", c)
	}
}

func TestSearch_Error(t *testing.T) {
	points := &mockPoints{searchErr: errors.New("rpc fail")}
	vs := NewWithClients(points, &mockCollections{}, "actuary-docs")
	if _, err := vs.Search(context.Background(), []float32{0.1}, 5); err == nil {
		t.Fatal("expected error")
	}
}

func TestScroll_WalksAllPages(t *testing.T) {
	next := &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: "cursor"}}
	points := &mockPoints{
		scrollResps: []*pb.ScrollResponse{
			{
				Result: []*pb.RetrievedPoint{
					{
						Id: &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: "p1"}},
						Payload: map[string]*pb.Value{
							"file_name": {Kind: &pb.Value_StringValue{StringValue: "a.pdf"}},
							"page":      {Kind: &pb.Value_IntegerValue{IntegerValue: 1}},
						},
					},
				},
				NextPageOffset: next,
			},
			{
				Result: []*pb.RetrievedPoint{
					{
						Id: &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: "p2"}},
						Payload: map[string]*pb.Value{
							"file_name": {Kind: &pb.Value_StringValue{StringValue: "b.pdf"}},
							"page":      {Kind: &pb.Value_IntegerValue{IntegerValue: 2}},
						},
					},
				},
			},
		},
	}
	vs := NewWithClients(points, &mockCollections{}, "actuary-docs")

	var seen []StoredPoint
	err := vs.Scroll(context.Background(), func(batch []StoredPoint) error {
		seen = append(seen, batch...)
		return nil
	})
	if err != nil {
		t.Fatalf("Scroll: %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("expected 2 points, got %d", len(seen))
	}
	if seen[0].PointID != "p1" || seen[1].PointID != "p2" {
		t.Fatalf("wrong scan order: %+v", seen)
	}
	if points.scrollCalls != 2 {
		t.Fatalf("expected 2 scroll round-trips, got %d", points.scrollCalls)
	}
}

func TestDeleteByIDs_Selector(t *testing.T) {
	points := &mockPoints{}
	vs := NewWithClients(points, &mockCollections{}, "actuary-docs")
	if err := vs.DeleteByIDs(context.Background(), []string{"p1", "p2"}); err != nil {
		t.Fatalf("DeleteByIDs: %v", err)
	}
	sel := points.deleteReq.GetPoints().GetPoints()
	if sel == nil || len(sel.GetIds()) != 2 {
		t.Fatalf("bad selector: %+v", points.deleteReq)
	}
}

func TestDeleteAll_UsesEmptyFilter(t *testing.T) {
	points := &mockPoints{}
	vs := NewWithClients(points, &mockCollections{}, "actuary-docs")
	if err := vs.DeleteAll(context.Background()); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if points.deleteReq.GetPoints().GetFilter() == nil {
		t.Fatal("expected filter selector for delete-all")
	}
}

func TestStats(t *testing.T) {
	count := uint64(42)
	cols := &mockCollections{
		getResp: &pb.GetCollectionInfoResponse{
			Result: &pb.CollectionInfo{
				PointsCount: &count,
				Config: &pb.CollectionConfig{
					Params: &pb.CollectionParams{
						VectorsConfig: &pb.VectorsConfig{
							Config: &pb.VectorsConfig_Params{
								Params: &pb.VectorParams{Size: 1536},
							},
						},
					},
				},
			},
		},
	}
	vs := NewWithClients(&mockPoints{}, cols, "actuary-docs")

	stats, err := vs.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Points != 42 || stats.Dimensions != 1536 {
		t.Fatalf("bad stats: %+v", stats)
	}
}
