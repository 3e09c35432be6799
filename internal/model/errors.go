package model

import "errors"

// ErrUnknownReference is returned by stores when a row points at a record that does not exist
var ErrUnknownReference = errors.New("referenced record does not exist")
