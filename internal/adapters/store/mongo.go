package store

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

// Field names match the rooms collection layout used across the rest of
// the deployment, so other services can read these documents directly.
type goalDoc struct {
	Amount int                `bson:"amount"`
	Period string             `bson:"period"`
	SetBy  primitive.ObjectID `bson:"setBy"`
	SetAt  time.Time          `bson:"setAt"`
}

type messageDoc struct {
	UserID    primitive.ObjectID `bson:"userId"`
	Username  string             `bson:"username"`
	Message   string             `bson:"message"`
	Timestamp time.Time          `bson:"timestamp"`
}

type roomDoc struct {
	ID          primitive.ObjectID   `bson:"_id"`
	Name        string               `bson:"name"`
	Members     []primitive.ObjectID `bson:"members"`
	CreatedBy   primitive.ObjectID   `bson:"createdBy"`
	CreatedAt   time.Time            `bson:"createdAt"`
	Description string               `bson:"description"`
	Goal        *goalDoc             `bson:"goal,omitempty"`
	Messages    []messageDoc         `bson:"messages"`
}

// MongoStore persists rooms as single documents, one per room. Every
// mutation is a single-document update operator, which gives per-room
// atomicity for free: two concurrent joins both land, and the $slice on
// message pushes keeps the history bounded in the same write.
type MongoStore struct {
	c *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{c: db.Collection("rooms")}
}

func roomOID(id domain.RoomID) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		// A malformed id cannot reference an existing room.
		return primitive.NilObjectID, fmt.Errorf("%w: room %s", domain.ErrNotFound, id)
	}
	return oid, nil
}

func userOID(id domain.UserID) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: bad user id %s", domain.ErrInvalidArgument, id)
	}
	return oid, nil
}

func (s *MongoStore) Create(ctx context.Context, name string, creator domain.UserID) (*domain.Room, error) {
	cid, err := userOID(creator)
	if err != nil {
		return nil, err
	}
	doc := roomDoc{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Members:   []primitive.ObjectID{cid},
		CreatedBy: cid,
		CreatedAt: time.Now().UTC(),
		Messages:  []messageDoc{},
	}
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (s *MongoStore) GetByID(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	oid, err := roomOID(id)
	if err != nil {
		return nil, err
	}
	var doc roomDoc
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: room %s", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (s *MongoStore) List(ctx context.Context) ([]*domain.Room, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var docs []roomDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domain.Room, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id domain.RoomID) error {
	oid, err := roomOID(id)
	if err != nil {
		return err
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: room %s", domain.ErrNotFound, id)
	}
	return nil
}

func (s *MongoStore) AddMember(ctx context.Context, id domain.RoomID, user domain.UserID) error {
	oid, err := roomOID(id)
	if err != nil {
		return err
	}
	uid, err := userOID(user)
	if err != nil {
		return err
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$addToSet": bson.M{"members": uid}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: room %s", domain.ErrNotFound, id)
	}
	return nil
}

func (s *MongoStore) RemoveMember(ctx context.Context, id domain.RoomID, user domain.UserID) error {
	oid, err := roomOID(id)
	if err != nil {
		return err
	}
	uid, err := userOID(user)
	if err != nil {
		return err
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$pull": bson.M{"members": uid}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: room %s", domain.ErrNotFound, id)
	}
	return nil
}

func (s *MongoStore) UpdateDescription(ctx context.Context, id domain.RoomID, desc string) error {
	oid, err := roomOID(id)
	if err != nil {
		return err
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"description": desc}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: room %s", domain.ErrNotFound, id)
	}
	return nil
}

func (s *MongoStore) SetGoal(ctx context.Context, id domain.RoomID, goal domain.Goal) error {
	oid, err := roomOID(id)
	if err != nil {
		return err
	}
	setBy, err := userOID(goal.SetBy)
	if err != nil {
		return err
	}
	doc := goalDoc{Amount: goal.Amount, Period: string(goal.Period), SetBy: setBy, SetAt: goal.SetAt}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"goal": doc}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: room %s", domain.ErrNotFound, id)
	}
	return nil
}

func (s *MongoStore) AppendMessage(ctx context.Context, id domain.RoomID, user domain.UserID, username, body string) (domain.ChatMessage, error) {
	oid, err := roomOID(id)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	uid, err := userOID(user)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	msg := messageDoc{UserID: uid, Username: username, Message: body, Timestamp: time.Now().UTC()}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$push": bson.M{"messages": bson.M{
			"$each":  bson.A{msg},
			"$slice": -domain.MaxChatHistory,
		}},
	})
	if err != nil {
		return domain.ChatMessage{}, err
	}
	if res.MatchedCount == 0 {
		return domain.ChatMessage{}, fmt.Errorf("%w: room %s", domain.ErrNotFound, id)
	}
	return domain.ChatMessage{
		UserID:    user,
		Username:  username,
		Message:   body,
		Timestamp: msg.Timestamp,
	}, nil
}

func (s *MongoStore) Messages(ctx context.Context, id domain.RoomID) ([]domain.ChatMessage, error) {
	room, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return room.Messages, nil
}

func (d *roomDoc) toDomain() *domain.Room {
	members := make([]domain.UserID, 0, len(d.Members))
	for _, m := range d.Members {
		members = append(members, domain.UserID(m.Hex()))
	}
	msgs := make([]domain.ChatMessage, 0, len(d.Messages))
	for _, m := range d.Messages {
		msgs = append(msgs, domain.ChatMessage{
			UserID:    domain.UserID(m.UserID.Hex()),
			Username:  m.Username,
			Message:   m.Message,
			Timestamp: m.Timestamp,
		})
	}
	room := &domain.Room{
		ID:          domain.RoomID(d.ID.Hex()),
		Name:        d.Name,
		CreatedBy:   domain.UserID(d.CreatedBy.Hex()),
		Members:     members,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		Messages:    msgs,
	}
	if d.Goal != nil {
		room.Goal = &domain.Goal{
			Amount: d.Goal.Amount,
			Period: domain.GoalPeriod(d.Goal.Period),
			SetBy:  domain.UserID(d.Goal.SetBy.Hex()),
			SetAt:  d.Goal.SetAt,
		}
	}
	return room
}
