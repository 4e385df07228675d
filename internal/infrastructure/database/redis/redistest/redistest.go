// Package redistest provides Redis clients backed by miniredis for tests.
package redistest

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/your-org/course-registration/internal/infrastructure/database/redis"
)

// New starts a miniredis server for the test and returns a client bound to
// it. Both are closed when the test ends. Use the server to move its clock.
func New(t testing.TB) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}
