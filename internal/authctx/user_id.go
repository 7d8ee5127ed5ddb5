package authctx

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// LocalsKey is where the JWT middleware stores the caller's id.
const LocalsKey = "user_id"

// UserIDFrom returns the authenticated caller, if any.
func UserIDFrom(c *fiber.Ctx) (bson.ObjectID, bool) {
	s, ok := c.Locals(LocalsKey).(string)
	if !ok || s == "" {
		return bson.NilObjectID, false
	}
	oid, err := bson.ObjectIDFromHex(s)
	if err != nil {
		return bson.NilObjectID, false
	}
	return oid, true
}
