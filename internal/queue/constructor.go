package queue

import (
	"github.com/maheshrc27/contentdesk/internal/service"
)

type Queue struct {
	verifier service.StatusVerifier
}

func NewQueue(verifier service.StatusVerifier) *Queue {
	return &Queue{
		verifier: verifier,
	}
}

const TaskTypeVerifyPostStatus = "verify:post_status"
