package middlewares

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mealyhq/mealy-api/utils"
)

// AccessTokenField is the response body key the refreshed token is
// delivered under.
const AccessTokenField = "access_token"

type bufferedWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

// SlidingRefresh keeps active sessions alive. It runs after the handler
// on routes that passed Authenticate: when the presented token's
// remaining lifetime drops under the threshold, a fresh full-length
// token is minted for the same identity and spliced into the JSON
// response body. Anything that prevents the splice (no claims, a
// non-object body, a signing error) leaves the response untouched.
func SlidingRefresh(ts *utils.TokenService, threshold time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		bw := &bufferedWriter{ResponseWriter: c.Writer}
		c.Writer = bw

		c.Next()

		out := bw.body.Bytes()
		defer func() {
			c.Writer = bw.ResponseWriter
			if len(out) > 0 {
				c.Writer.Write(out)
			}
		}()

		claimsVal, exists := c.Get(ContextClaims)
		if !exists {
			return
		}
		claims, ok := claimsVal.(*utils.Claims)
		if !ok || ts.RemainingLifetime(claims) >= threshold {
			return
		}

		fresh, err := ts.Issue(claims.UserID, claims.Role)
		if err != nil {
			return
		}

		var payload map[string]interface{}
		if err := json.Unmarshal(out, &payload); err != nil || payload == nil {
			return
		}
		payload[AccessTokenField] = fresh

		spliced, err := json.Marshal(payload)
		if err != nil {
			return
		}
		out = spliced
	}
}
