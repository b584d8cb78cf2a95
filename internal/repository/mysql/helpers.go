package mysql

import (
	"errors"

	gomysql "github.com/go-sql-driver/mysql"
)

func isDuplicateEntry(err error) bool {
	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}
