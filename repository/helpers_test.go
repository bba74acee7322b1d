package repository_test

import "errors"

var errDriverDown = errors.New("driver: bad connection state")
