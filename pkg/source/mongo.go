package source

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jruhland/assetscope/pkg/assetgraph"
)

// MongoConfig configures the MongoDB provider.
type MongoConfig struct {
	URI      string
	Database string
	// Collection names, defaulted to "assets" and "edges".
	Assets string
	Edges  string
}

func (c MongoConfig) withDefaults() MongoConfig {
	if c.Assets == "" {
		c.Assets = "assets"
	}
	if c.Edges == "" {
		c.Edges = "edges"
	}
	return c
}

// Mongo is a Provider reading node and edge documents from two MongoDB
// collections. Node documents follow [assetgraph.NodeEntry], edge
// documents [assetgraph.EdgeEntry].
type Mongo struct {
	client *mongo.Client
	cfg    MongoConfig
	logger *log.Logger
}

// NewMongo connects to MongoDB and verifies the connection with a ping.
func NewMongo(ctx context.Context, cfg MongoConfig, logger *log.Logger) (*Mongo, error) {
	if logger == nil {
		logger = log.Default()
	}
	cfg = cfg.withDefaults()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &Mongo{client: client, cfg: cfg, logger: logger}, nil
}

// Fetch loads all asset and edge documents and filters them by query.
func (m *Mongo) Fetch(ctx context.Context, query string) (*assetgraph.Graph, error) {
	q, err := ParseQuery(query)
	if err != nil {
		return nil, err
	}

	db := m.client.Database(m.cfg.Database)

	var doc assetgraph.Document
	cur, err := db.Collection(m.cfg.Assets).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find assets: %w", err)
	}
	if err := cur.All(ctx, &doc.Nodes); err != nil {
		return nil, fmt.Errorf("decode assets: %w", err)
	}

	cur, err = db.Collection(m.cfg.Edges).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find edges: %w", err)
	}
	if err := cur.All(ctx, &doc.Edges); err != nil {
		return nil, fmt.Errorf("decode edges: %w", err)
	}

	g, err := assetgraph.ToGraph(doc)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("loaded graph from mongo",
		"database", m.cfg.Database, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return filter(g, q)
}

// Publish replaces the stored graph with g, writing both collections.
func (m *Mongo) Publish(ctx context.Context, g *assetgraph.Graph) error {
	doc := assetgraph.FromGraph(g)
	db := m.client.Database(m.cfg.Database)

	if err := replaceAll(ctx, db.Collection(m.cfg.Assets), doc.Nodes); err != nil {
		return fmt.Errorf("publish assets: %w", err)
	}
	if err := replaceAll(ctx, db.Collection(m.cfg.Edges), doc.Edges); err != nil {
		return fmt.Errorf("publish edges: %w", err)
	}
	return nil
}

func replaceAll[T any](ctx context.Context, coll *mongo.Collection, docs []T) error {
	if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}
	rows := make([]any, len(docs))
	for i, d := range docs {
		rows[i] = d
	}
	_, err := coll.InsertMany(ctx, rows)
	return err
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
