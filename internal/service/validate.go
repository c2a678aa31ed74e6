package service

import "github.com/shelfline/shelfline-server/internal/validation"

// validate is a shared validator instance for request validation.
var validate = validation.New()
