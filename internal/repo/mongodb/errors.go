package mongodb

import (
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// isSlugDuplicate reports a duplicate key on the slug index only. Other unique indexes,
// _id included, are not slug conflicts.
func isSlugDuplicate(err error) bool {
	return mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), "index: "+slugIndex)
}
