package ui

import (
	"errors"
	"strconv"
	"strings"
)

const (
	FlashcardPrefix    = "f:"
	QuizPrefix         = "q:"
	MaxCallbackDataLen = 64
)

// FlashcardOp is one inline-keyboard action on the active flashcard.
type FlashcardOp string

const (
	FlashFlip   FlashcardOp = "flip"
	FlashPrev   FlashcardOp = "prev"
	FlashNext   FlashcardOp = "next"
	FlashKnown  FlashcardOp = "known"
	FlashReview FlashcardOp = "rev"
	FlashStop   FlashcardOp = "stop"
)

// QuizOp is one inline-keyboard action on the active quiz question.
type QuizOp string

const (
	QuizAnswer QuizOp = "ans"
	QuizStop   QuizOp = "stop"
)

type FlashcardAction struct {
	Op    FlashcardOp
	Token string
}

type QuizAction struct {
	Op     QuizOp
	Option int
	Token  string
}

var (
	errInvalidPrefix       = errors.New("invalid callback prefix")
	errInvalidAction       = errors.New("invalid callback action")
	errInvalidValue        = errors.New("invalid callback value")
	errCallbackDataTooLong = errors.New("callback data too long")
)

// BuildFlashcardCallback encodes a flashcard action bound to the
// session token issued when the deck was started.
func BuildFlashcardCallback(op FlashcardOp, token string) (string, error) {
	switch op {
	case FlashFlip, FlashPrev, FlashNext, FlashKnown, FlashReview, FlashStop:
	default:
		return "", errInvalidAction
	}
	if token == "" || strings.Contains(token, ":") {
		return "", errInvalidValue
	}
	data := FlashcardPrefix + string(op) + ":" + token
	return validateCallbackData(data)
}

// BuildQuizAnswerCallback encodes an option pick bound to the current
// question's token.
func BuildQuizAnswerCallback(option int, token string) (string, error) {
	if option < 0 {
		return "", errInvalidValue
	}
	if token == "" || strings.Contains(token, ":") {
		return "", errInvalidValue
	}
	data := QuizPrefix + string(QuizAnswer) + ":" + strconv.Itoa(option) + ":" + token
	return validateCallbackData(data)
}

func BuildQuizStopCallback() (string, error) {
	return validateCallbackData(QuizPrefix + string(QuizStop))
}

// ParseFlashcardCallback decodes data produced by BuildFlashcardCallback.
func ParseFlashcardCallback(data string) (FlashcardAction, error) {
	if data == "" {
		return FlashcardAction{}, errInvalidAction
	}
	if len(data) > MaxCallbackDataLen {
		return FlashcardAction{}, errCallbackDataTooLong
	}
	if !strings.HasPrefix(data, FlashcardPrefix) {
		return FlashcardAction{}, errInvalidPrefix
	}

	parts := strings.Split(data, ":")
	if len(parts) != 3 || parts[0] != "f" {
		return FlashcardAction{}, errInvalidAction
	}

	switch FlashcardOp(parts[1]) {
	case FlashFlip, FlashPrev, FlashNext, FlashKnown, FlashReview, FlashStop:
	default:
		return FlashcardAction{}, errInvalidAction
	}
	if parts[2] == "" {
		return FlashcardAction{}, errInvalidValue
	}
	return FlashcardAction{Op: FlashcardOp(parts[1]), Token: parts[2]}, nil
}

// ParseQuizCallback decodes data produced by the quiz builders.
func ParseQuizCallback(data string) (QuizAction, error) {
	if data == "" {
		return QuizAction{}, errInvalidAction
	}
	if len(data) > MaxCallbackDataLen {
		return QuizAction{}, errCallbackDataTooLong
	}
	if !strings.HasPrefix(data, QuizPrefix) {
		return QuizAction{}, errInvalidPrefix
	}

	parts := strings.Split(data, ":")
	if len(parts) < 2 || parts[0] != "q" {
		return QuizAction{}, errInvalidAction
	}

	switch QuizOp(parts[1]) {
	case QuizStop:
		if len(parts) != 2 {
			return QuizAction{}, errInvalidAction
		}
		return QuizAction{Op: QuizStop}, nil
	case QuizAnswer:
		if len(parts) != 4 {
			return QuizAction{}, errInvalidAction
		}
		if !isASCIIUnsignedInt(parts[2]) {
			return QuizAction{}, errInvalidValue
		}
		option, err := strconv.Atoi(parts[2])
		if err != nil {
			return QuizAction{}, errInvalidValue
		}
		if parts[3] == "" {
			return QuizAction{}, errInvalidValue
		}
		return QuizAction{Op: QuizAnswer, Option: option, Token: parts[3]}, nil
	default:
		return QuizAction{}, errInvalidAction
	}
}

func validateCallbackData(data string) (string, error) {
	if data == "" {
		return "", errInvalidAction
	}
	if len(data) > MaxCallbackDataLen {
		return "", errCallbackDataTooLong
	}
	return data, nil
}

func isASCIIUnsignedInt(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}
