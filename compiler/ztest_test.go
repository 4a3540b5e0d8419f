package compiler_test

import (
	"testing"

	"github.com/hibernate/hibernate-semantic-query-sub003/ztest"
)

func TestZTest(t *testing.T) { ztest.Run(t, "testdata/ztest") }
