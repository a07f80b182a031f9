// Package semantic is the sole owner of all Qdrant operations. The
// collection is the system's only persistent state: deterministic record
// ids make every write an idempotent overwrite.
package semantic

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/kactuary/actuary-rag/engine/domain"
)

// Payload keys of a stored vector record.
const (
	payloadRecordID = "record_id"
	payloadFileName = "file_name"
	payloadPage     = "page"
	payloadText     = "text"
)

// scrollPageSize caps how many points one Scroll round-trip returns.
const scrollPageSize = 512

// pointsAPI is the subset of pb.PointsClient the store uses.
type pointsAPI interface {
	Upsert(ctx context.Context, in *pb.UpsertPoints, opts ...grpc.CallOption) (*pb.PointsOperationResponse, error)
	Delete(ctx context.Context, in *pb.DeletePoints, opts ...grpc.CallOption) (*pb.PointsOperationResponse, error)
	Search(ctx context.Context, in *pb.SearchPoints, opts ...grpc.CallOption) (*pb.SearchResponse, error)
	Scroll(ctx context.Context, in *pb.ScrollPoints, opts ...grpc.CallOption) (*pb.ScrollResponse, error)
}

// collectionsAPI is the subset of pb.CollectionsClient the store uses.
type collectionsAPI interface {
	List(ctx context.Context, in *pb.ListCollectionsRequest, opts ...grpc.CallOption) (*pb.ListCollectionsResponse, error)
	Create(ctx context.Context, in *pb.CreateCollection, opts ...grpc.CallOption) (*pb.CollectionOperationResponse, error)
	Get(ctx context.Context, in *pb.GetCollectionInfoRequest, opts ...grpc.CallOption) (*pb.GetCollectionInfoResponse, error)
}

// VectorStore talks to one Qdrant collection.
type VectorStore struct {
	conn        *grpc.ClientConn
	points      pointsAPI
	collections collectionsAPI
	collection  string
}

// New creates a VectorStore connected to Qdrant at the given gRPC address.
func New(addr string, collection string) (*VectorStore, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("semantic: dial qdrant %s: %w", addr, err)
	}
	return &VectorStore{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
	}, nil
}

// NewWithClients builds a store around existing clients. Used by tests.
func NewWithClients(points pointsAPI, collections collectionsAPI, collection string) *VectorStore {
	return &VectorStore{points: points, collections: collections, collection: collection}
}

// Close closes the underlying gRPC connection.
func (v *VectorStore) Close() error {
	if v.conn == nil {
		return nil
	}
	return v.conn.Close()
}

// EnsureCollection creates the collection if it doesn't exist.
func (v *VectorStore) EnsureCollection(ctx context.Context, dims int) error {
	list, err := v.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("semantic: list collections: %w", err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == v.collection {
			return nil
		}
	}

	_, err = v.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: v.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(dims),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("semantic: create collection %s: %w", v.collection, err)
	}
	return nil
}

// PointID maps a record identifier onto a Qdrant point id. Qdrant accepts
// only UUID or integer ids, so the readable record id is hashed into a
// name-based UUID and kept in the payload instead.
func PointID(recordID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(recordID)).String()
}

// Upsert writes records into the collection, waiting for the operation to
// be applied before returning.
func (v *VectorStore) Upsert(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	points := make([]*pb.PointStruct, len(records))
	for i, r := range records {
		points[i] = &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{Uuid: PointID(r.ID)},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: r.Embedding},
				},
			},
			Payload: payloadFor(r),
		}
	}

	wait := true
	_, err := v.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: v.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("semantic: upsert %d points: %w", len(records), err)
	}
	return nil
}

// Search performs k-NN similarity search with payloads included, returning
// candidates ranked by score descending.
func (v *VectorStore) Search(ctx context.Context, embedding []float32, limit int) ([]domain.Candidate, error) {
	resp, err := v.points.Search(ctx, &pb.SearchPoints{
		CollectionName: v.collection,
		Vector:         embedding,
		Limit:          uint64(limit),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("semantic: search: %w", err)
	}

	results := make([]domain.Candidate, len(resp.GetResult()))
	for i, scored := range resp.GetResult() {
		results[i] = candidateFrom(scored)
	}
	return results, nil
}

// Scroll walks the whole collection page by page, invoking fn for each
// batch of stored points. Used by the maintenance tooling for corpus-wide
// scans without dummy-vector queries.
func (v *VectorStore) Scroll(ctx context.Context, fn func([]StoredPoint) error) error {
	var offset *pb.PointId
	limit := uint32(scrollPageSize)
	for {
		resp, err := v.points.Scroll(ctx, &pb.ScrollPoints{
			CollectionName: v.collection,
			Limit:          &limit,
			Offset:         offset,
			WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
		})
		if err != nil {
			return fmt.Errorf("semantic: scroll: %w", err)
		}

		batch := make([]StoredPoint, len(resp.GetResult()))
		for i, p := range resp.GetResult() {
			batch[i] = storedPointFrom(p)
		}
		if len(batch) > 0 {
			if err := fn(batch); err != nil {
				return err
			}
		}

		offset = resp.GetNextPageOffset()
		if offset == nil {
			return nil
		}
	}
}

// DeleteByIDs removes the points with the given Qdrant point ids.
func (v *VectorStore) DeleteByIDs(ctx context.Context, pointIDs []string) error {
	if len(pointIDs) == 0 {
		return nil
	}
	ids := make([]*pb.PointId, len(pointIDs))
	for i, id := range pointIDs {
		ids[i] = &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: id}}
	}
	wait := true
	_, err := v.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: v.collection,
		Wait:           &wait,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Points{
				Points: &pb.PointsIdsList{Ids: ids},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("semantic: delete %d points: %w", len(pointIDs), err)
	}
	return nil
}

// DeleteAll wipes every point in the collection. The empty filter matches
// all points.
func (v *VectorStore) DeleteAll(ctx context.Context) error {
	wait := true
	_, err := v.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: v.collection,
		Wait:           &wait,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Filter{
				Filter: &pb.Filter{},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("semantic: delete all: %w", err)
	}
	return nil
}

// Stats reports the point count and vector dimensionality of the collection.
func (v *VectorStore) Stats(ctx context.Context) (Stats, error) {
	resp, err := v.collections.Get(ctx, &pb.GetCollectionInfoRequest{CollectionName: v.collection})
	if err != nil {
		return Stats{}, fmt.Errorf("semantic: collection info: %w", err)
	}
	info := resp.GetResult()
	return Stats{
		Points:     info.GetPointsCount(),
		Dimensions: info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize(),
	}, nil
}

func payloadFor(r domain.Record) map[string]*pb.Value {
	return map[string]*pb.Value{
		payloadRecordID: {Kind: &pb.Value_StringValue{StringValue: r.ID}},
		payloadFileName: {Kind: &pb.Value_StringValue{StringValue: r.FileName}},
		payloadPage:     {Kind: &pb.Value_IntegerValue{IntegerValue: int64(r.Page)}},
		payloadText:     {Kind: &pb.Value_StringValue{StringValue: r.Text}},
	}
}

func candidateFrom(scored *pb.ScoredPoint) domain.Candidate {
	payload := scored.GetPayload()
	return domain.Candidate{
		RecordID: payload[payloadRecordID].GetStringValue(),
		FileName: payload[payloadFileName].GetStringValue(),
		Page:     int(payload[payloadPage].GetIntegerValue()),
		Text:     payload[payloadText].GetStringValue(),
		Score:    scored.GetScore(),
	}
}

func storedPointFrom(p *pb.RetrievedPoint) StoredPoint {
	payload := p.GetPayload()
	return StoredPoint{
		PointID:  p.GetId().GetUuid(),
		RecordID: payload[payloadRecordID].GetStringValue(),
		FileName: payload[payloadFileName].GetStringValue(),
		Page:     int(payload[payloadPage].GetIntegerValue()),
		Text:     payload[payloadText].GetStringValue(),
	}
}
