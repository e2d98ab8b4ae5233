// Package ledger reads the user-account collaborator's focus history and
// city. Strictly read-only: aggregation source, never mutated here.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dkeye/focusopolis/internal/domain"
)

type sessionDoc struct {
	Duration  int       `bson:"duration"`
	Timestamp time.Time `bson:"timestamp"`
	Status    string    `bson:"status"`
}

type buildingDoc struct {
	Type string `bson:"type"`
}

type userDoc struct {
	ID       primitive.ObjectID `bson:"_id"`
	Username string             `bson:"username"`
	City     struct {
		Buildings []buildingDoc `bson:"buildings"`
	} `bson:"city"`
	FocusHistory []sessionDoc `bson:"focusHistory"`
}

type MongoLedger struct {
	c *mongo.Collection
}

func NewMongoLedger(db *mongo.Database) *MongoLedger {
	return &MongoLedger{c: db.Collection("users")}
}

func (l *MongoLedger) find(ctx context.Context, user domain.UserID) (*userDoc, error) {
	oid, err := primitive.ObjectIDFromHex(string(user))
	if err != nil {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, user)
	}
	var doc userDoc
	if err := l.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, user)
		}
		return nil, err
	}
	return &doc, nil
}

func (l *MongoLedger) SessionsSince(ctx context.Context, user domain.UserID, since time.Time) ([]domain.FocusSession, error) {
	doc, err := l.find(ctx, user)
	if err != nil {
		return nil, err
	}
	out := make([]domain.FocusSession, 0, len(doc.FocusHistory))
	for _, s := range doc.FocusHistory {
		if s.Timestamp.Before(since) {
			continue
		}
		out = append(out, domain.FocusSession{Duration: s.Duration, Timestamp: s.Timestamp, Status: s.Status})
	}
	return out, nil
}

func (l *MongoLedger) Profile(ctx context.Context, user domain.UserID) (domain.MemberProfile, error) {
	doc, err := l.find(ctx, user)
	if err != nil {
		return domain.MemberProfile{}, err
	}
	total := 0
	for _, s := range doc.FocusHistory {
		total += s.Duration
	}
	return domain.MemberProfile{
		ID:           user,
		Username:     doc.Username,
		TotalMinutes: total,
		Buildings:    len(doc.City.Buildings),
	}, nil
}
