package handler

const (
	// ParamID is the route parameter holding a resource id.
	ParamID = "id"

	// IDPath is the suffix of single resource routes.
	IDPath = "/:" + ParamID

	// ErrNilACDFatalLogMsg is used if router or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "router, cfg or db is nil"

	// MsgInvalidRequest is returned for bodies or ids that can not be parsed or validated.
	MsgInvalidRequest = "Invalid request"
)
