package mysql

import (
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

const duplicateEntry = 1062

func isDuplicateEntry(err error) bool {
	var myErr *mysqldriver.MySQLError
	return errors.As(err, &myErr) && myErr.Number == duplicateEntry
}
