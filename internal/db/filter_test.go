package db

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestContainsPatternEscapesMetacharacters(t *testing.T) {
	pattern := ContainsPattern("c++ (basics)")
	require.Equal(t, bson.M{
		"$regex":   `c\+\+ \(basics\)`,
		"$options": "i",
	}, pattern)
}

func TestContainsIsCaseInsensitive(t *testing.T) {
	filter := NewFilter().Contains("title", "GoLang").Build()
	require.Equal(t, bson.M{
		"title": bson.M{"$regex": "GoLang", "$options": "i"},
	}, filter)
}

func TestEqFoldAnchorsAndEscapes(t *testing.T) {
	filter := NewFilter().EqFold("name", "c++").Build()
	require.Equal(t, bson.M{
		"name": bson.M{"$regex": `^c\+\+$`, "$options": "i"},
	}, filter)
}

func TestFilterBuilderComposes(t *testing.T) {
	id := primitive.NewObjectID()
	filter := NewFilter().
		ObjectID("author", id).
		In("_id", []primitive.ObjectID{id}).
		Size("answers", 0).
		Build()

	require.Equal(t, bson.M{
		"author":  id,
		"_id":     bson.M{"$in": []primitive.ObjectID{id}},
		"answers": bson.M{"$size": 0},
	}, filter)
}

func TestHasNextPage(t *testing.T) {
	// 15 matches, page size 10: page one has more, page two does not.
	require.True(t, HasNextPage(15, 0, 10))
	require.False(t, HasNextPage(15, 10, 5))

	// Exact fit leaves nothing behind.
	require.False(t, HasNextPage(10, 0, 10))
	require.False(t, HasNextPage(0, 0, 0))
}
