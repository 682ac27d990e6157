package controller

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// defaultLimit mirrors the default page size of the list endpoints.
const defaultLimit = 100

// detail is the error body shape used by every endpoint.
func detail(msg string) gin.H {
	return gin.H{"detail": msg}
}

// bindDetail turns a bind/validation failure into a 422 body. Validator
// errors get field-level messages; anything else (malformed JSON, wrong
// types) is reported as-is.
func bindDetail(err error) gin.H {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[strings.ToLower(fe.Field())] = "failed on the '" + fe.Tag() + "' rule"
		}
		return gin.H{"detail": fields}
	}
	return gin.H{"detail": err.Error()}
}

// pageParams reads skip/limit query parameters with the usual defaults.
func pageParams(c *gin.Context) (skip, limit int) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 0 {
		limit = defaultLimit
	}
	return skip, limit
}

// pathID parses the numeric path parameter. ok=false means the segment is
// not an integer and the caller should reject the request.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func boolQuery(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.DefaultQuery(name, "false"))
	return err == nil && v
}
