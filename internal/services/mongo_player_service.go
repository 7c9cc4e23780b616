package services

import (
	"context"
	"crypto/tls"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/parasports/idcard/internal/models"
)

type MongoPlayerService struct {
	client     *mongo.Client
	db         *mongo.Database
	playersCol *mongo.Collection
}

func NewMongoPlayerService(ctx context.Context, mongoURI, dbName string) (*MongoPlayerService, error) {
	tlsCfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS12,
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI).SetTLSConfig(tlsCfg))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	col := db.Collection("players")

	// Best-effort indexes.
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "player_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
	})

	return &MongoPlayerService{
		client:     client,
		db:         db,
		playersCol: col,
	}, nil
}

func (s *MongoPlayerService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoPlayerService) Create(ctx context.Context, p *models.Player) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.playersCol.InsertOne(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		return ErrPlayerIDExists
	}
	return err
}

func (s *MongoPlayerService) GetByPlayerID(ctx context.Context, playerID string) (*models.Player, error) {
	return s.findOne(ctx, bson.M{"player_id": playerID})
}

func (s *MongoPlayerService) GetByEmail(ctx context.Context, email string) (*models.Player, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoPlayerService) FindByIDAndEmail(ctx context.Context, playerID, email string) (*models.Player, error) {
	return s.findOne(ctx, bson.M{"player_id": playerID, "email": email})
}

func (s *MongoPlayerService) findOne(ctx context.Context, filter bson.M) (*models.Player, error) {
	var p models.Player
	if err := s.playersCol.FindOne(ctx, filter).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *MongoPlayerService) List(ctx context.Context, limit int) ([]*models.Player, error) {
	if limit <= 0 || limit > 500 {
		limit = 500
	}
	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := s.playersCol.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	players := make([]*models.Player, 0)
	for cur.Next(ctx) {
		var p models.Player
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		players = append(players, &p)
	}
	return players, cur.Err()
}

func (s *MongoPlayerService) Update(ctx context.Context, playerID string, req *models.UpdatePlayerRequest) (*models.Player, error) {
	p, err := s.GetByPlayerID(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if err := applyPlayerUpdate(p, req); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now()

	res, err := s.playersCol.ReplaceOne(ctx, bson.M{"player_id": playerID}, p)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrPlayerNotFound
	}
	return p, nil
}

func (s *MongoPlayerService) Delete(ctx context.Context, playerID string) error {
	res, err := s.playersCol.DeleteOne(ctx, bson.M{"player_id": playerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

func (s *MongoPlayerService) SetCardPath(ctx context.Context, playerID, cardPath string) error {
	res, err := s.playersCol.UpdateOne(ctx, bson.M{"player_id": playerID}, bson.M{
		"$set": bson.M{
			"id_card_generated": true,
			"id_card_path":      cardPath,
			"updated_at":        time.Now(),
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPlayerNotFound
	}
	return nil
}
