package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"mysql row referenced", &mysql.MySQLError{Number: 1451, Message: "Cannot delete"}, ErrForeignKey},
		{"mysql no referenced row", &mysql.MySQLError{Number: 1452}, ErrForeignKey},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062}, ErrDuplicate},
		{"mysql null", &mysql.MySQLError{Number: 1048}, ErrNotNull},
		{"mysql deadlock", &mysql.MySQLError{Number: 1213}, ErrDeadlock},
		{"mysql wrapped", fmt.Errorf("exec: %w", &mysql.MySQLError{Number: 1205}), ErrDeadlock},
		{"sqlite fk", errors.New("FOREIGN KEY constraint failed"), ErrForeignKey},
		{"sqlite not null", errors.New("NOT NULL constraint failed: customer.store_id"), ErrNotNull},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), ErrTimeout},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.err)
			assert.ErrorIs(t, got, tc.want)
			assert.ErrorIs(t, got, tc.err)
		})
	}
}

func TestClassify_Unknown(t *testing.T) {
	err := errors.New("boom")
	assert.Same(t, err, Classify(err))
	assert.NoError(t, Classify(nil))
	assert.Nil(t, classOf(&mysql.MySQLError{Number: 1064}))
}

func TestClassify_Idempotent(t *testing.T) {
	once := Classify(&mysql.MySQLError{Number: 1451})
	assert.Same(t, once, Classify(once))
}
