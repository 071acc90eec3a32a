package queue_test

import (
	"testing"

	// Packages
	test "github.com/onelson/fizzbuzz-scheduler/pkg/test"
)

var conn *test.Conn

func TestMain(m *testing.M) {
	test.Main(m, &conn)
}
