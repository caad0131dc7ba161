// Package qdrant provides a VectorDB implementation using Qdrant.
package qdrant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/trustlens/trustlens/internal/domain/entities"
	"github.com/trustlens/trustlens/internal/domain/ports"
	"github.com/trustlens/trustlens/internal/infrastructure/config"
)

// Repository implements the VectorDB interface using Qdrant.
type Repository struct {
	client     pb.CollectionsClient
	points     pb.PointsClient
	collection string
	conn       *grpc.ClientConn
}

// NewRepository creates a new Qdrant repository.
func NewRepository(cfg config.QdrantConfig) (*Repository, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}

	return &Repository{
		client:     pb.NewCollectionsClient(conn),
		points:     pb.NewPointsClient(conn),
		collection: cfg.Collection,
		conn:       conn,
	}, nil
}

// Close closes the gRPC connection.
func (r *Repository) Close() error {
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// EnsureCollection creates the collection if it doesn't exist.
func (r *Repository) EnsureCollection(ctx context.Context, vectorSize uint64) error {
	_, err := r.client.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: r.collection,
	})
	if err == nil {
		return nil
	}

	_, err = r.client.Create(ctx, &pb.CreateCollection{
		CollectionName: r.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     vectorSize,
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}

	return nil
}

// DeleteCollection drops the collection and everything in it.
func (r *Repository) DeleteCollection(ctx context.Context) error {
	_, err := r.client.Delete(ctx, &pb.DeleteCollection{
		CollectionName: r.collection,
	})
	if err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	return nil
}

// Save stores a source report with its embedding.
func (r *Repository) Save(ctx context.Context, report entities.SourceReport) error {
	return r.SaveBatch(ctx, []entities.SourceReport{report})
}

// SaveBatch stores multiple source reports.
func (r *Repository) SaveBatch(ctx context.Context, reports []entities.SourceReport) error {
	points := make([]*pb.PointStruct, 0, len(reports))

	for _, report := range reports {
		pointID := report.ID
		if pointID == "" {
			pointID = uuid.New().String()
		}

		point := &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{
					Uuid: pointID,
				},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{
						Data: report.Embedding,
					},
				},
			},
			Payload: map[string]*pb.Value{
				"source":       {Kind: &pb.Value_StringValue{StringValue: report.Source}},
				"title":        {Kind: &pb.Value_StringValue{StringValue: report.Title}},
				"url":          {Kind: &pb.Value_StringValue{StringValue: report.URL}},
				"summary":      {Kind: &pb.Value_StringValue{StringValue: report.Summary}},
				"published_at": {Kind: &pb.Value_StringValue{StringValue: report.PublishedAt.Format(time.RFC3339)}},
				"created_at":   {Kind: &pb.Value_StringValue{StringValue: report.CreatedAt.Format(time.RFC3339)}},
			},
		}
		points = append(points, point)
	}

	_, err := r.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: r.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upserting points: %w", err)
	}

	return nil
}

// FindByID retrieves a source report by its ID.
func (r *Repository) FindByID(ctx context.Context, id string) (entities.SourceReport, error) {
	resp, err := r.points.Get(ctx, &pb.GetPoints{
		CollectionName: r.collection,
		Ids: []*pb.PointId{
			{PointIdOptions: &pb.PointId_Uuid{Uuid: id}},
		},
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
		WithVectors: &pb.WithVectorsSelector{
			SelectorOptions: &pb.WithVectorsSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return entities.SourceReport{}, fmt.Errorf("getting point: %w", err)
	}

	if len(resp.Result) == 0 {
		return entities.SourceReport{}, fmt.Errorf("source report not found: %s", id)
	}

	return pointToReport(resp.Result[0]), nil
}

// Search returns the reports most similar to the given embedding, annotated
// with their cosine similarity.
func (r *Repository) Search(ctx context.Context, embedding []float32, limit int) ([]ports.ScoredReport, error) {
	resp, err := r.points.Search(ctx, &pb.SearchPoints{
		CollectionName: r.collection,
		Vector:         embedding,
		Limit:          uint64(limit),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
		WithVectors: &pb.WithVectorsSelector{
			SelectorOptions: &pb.WithVectorsSelector_Enable{Enable: false},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("searching points: %w", err)
	}

	scored := make([]ports.ScoredReport, 0, len(resp.Result))
	for _, point := range resp.Result {
		report := payloadToReport(point.Id.GetUuid(), point.Payload)
		scored = append(scored, ports.ScoredReport{
			Report:     report,
			Similarity: point.Score,
		})
	}
	return scored, nil
}

// List returns stored reports with pagination.
func (r *Repository) List(ctx context.Context, limit int, offset uint64) ([]entities.SourceReport, error) {
	var offsetPtr *pb.PointId
	if offset > 0 {
		offsetPtr = &pb.PointId{
			PointIdOptions: &pb.PointId_Num{Num: offset},
		}
	}

	resp, err := r.points.Scroll(ctx, &pb.ScrollPoints{
		CollectionName: r.collection,
		Limit:          pb.PtrOf(uint32(limit)),
		Offset:         offsetPtr,
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
		WithVectors: &pb.WithVectorsSelector{
			SelectorOptions: &pb.WithVectorsSelector_Enable{Enable: false},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("scrolling points: %w", err)
	}

	reports := make([]entities.SourceReport, 0, len(resp.Result))
	for _, point := range resp.Result {
		reports = append(reports, pointToReport(point))
	}
	return reports, nil
}

// Delete removes a source report by its ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: r.collection,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Points{
				Points: &pb.PointsIdsList{
					Ids: []*pb.PointId{
						{PointIdOptions: &pb.PointId_Uuid{Uuid: id}},
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("deleting point: %w", err)
	}

	return nil
}

// DeleteAll removes all stored reports.
func (r *Repository) DeleteAll(ctx context.Context) error {
	_, err := r.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: r.collection,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Filter{
				Filter: &pb.Filter{},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("deleting all points: %w", err)
	}

	return nil
}

// Count returns the total number of stored reports.
func (r *Repository) Count(ctx context.Context) (uint64, error) {
	resp, err := r.client.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: r.collection,
	})
	if err != nil {
		return 0, fmt.Errorf("getting collection info: %w", err)
	}

	if resp.Result.PointsCount == nil {
		return 0, nil
	}

	return *resp.Result.PointsCount, nil
}

// pointToReport converts a Qdrant point to a SourceReport entity.
func pointToReport(point *pb.RetrievedPoint) entities.SourceReport {
	report := payloadToReport(point.Id.GetUuid(), point.Payload)
	if vec := point.Vectors.GetVector(); vec != nil {
		report.Embedding = vec.Data
	}
	return report
}

func payloadToReport(id string, payload map[string]*pb.Value) entities.SourceReport {
	report := entities.SourceReport{
		ID:      id,
		Source:  getStringValue(payload, "source"),
		Title:   getStringValue(payload, "title"),
		URL:     getStringValue(payload, "url"),
		Summary: getStringValue(payload, "summary"),
	}
	if published, err := time.Parse(time.RFC3339, getStringValue(payload, "published_at")); err == nil {
		report.PublishedAt = published
	}
	if created, err := time.Parse(time.RFC3339, getStringValue(payload, "created_at")); err == nil {
		report.CreatedAt = created
	}
	return report
}

func getStringValue(payload map[string]*pb.Value, key string) string {
	if v, ok := payload[key]; ok {
		return v.GetStringValue()
	}
	return ""
}
