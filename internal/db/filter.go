package db

import (
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FilterBuilder helps build MongoDB filters fluently
type FilterBuilder struct {
	filter bson.M
}

// NewFilter creates a new FilterBuilder
func NewFilter() *FilterBuilder {
	return &FilterBuilder{filter: bson.M{}}
}

// Eq adds an equality condition
func (f *FilterBuilder) Eq(field string, value interface{}) *FilterBuilder {
	f.filter[field] = value
	return f
}

// In adds an $in condition (value in array)
func (f *FilterBuilder) In(field string, values interface{}) *FilterBuilder {
	f.filter[field] = bson.M{"$in": values}
	return f
}

// Size adds an array-length condition
func (f *FilterBuilder) Size(field string, n int) *FilterBuilder {
	f.filter[field] = bson.M{"$size": n}
	return f
}

// ObjectID adds an ObjectID equality condition
func (f *FilterBuilder) ObjectID(field string, id primitive.ObjectID) *FilterBuilder {
	f.filter[field] = id
	return f
}

// Contains adds a case-insensitive substring match. The user-supplied text
// is escaped so pattern metacharacters match literally.
func (f *FilterBuilder) Contains(field string, value string) *FilterBuilder {
	f.filter[field] = ContainsPattern(value)
	return f
}

// EqFold adds a case-insensitive exact-name match, anchored and escaped.
func (f *FilterBuilder) EqFold(field string, value string) *FilterBuilder {
	f.filter[field] = bson.M{
		"$regex":   fmt.Sprintf("^%s$", regexp.QuoteMeta(value)),
		"$options": "i",
	}
	return f
}

// Or combines multiple filters with OR
func (f *FilterBuilder) Or(filters ...bson.M) *FilterBuilder {
	if len(filters) > 0 {
		f.filter["$or"] = filters
	}
	return f
}

// Build returns the final bson.M filter
func (f *FilterBuilder) Build() bson.M {
	return f.filter
}

// ContainsPattern builds the case-insensitive escaped regex predicate used
// for substring search on a string field.
func ContainsPattern(value string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(value), "$options": "i"}
}

// Empty returns an empty filter (matches all documents)
func Empty() bson.M {
	return bson.M{}
}
