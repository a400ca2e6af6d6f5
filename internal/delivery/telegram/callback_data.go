package telegram

import (
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionTopic   = "topic"
	actionAnswer  = "ans"
	actionExplain = "exp"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// param returns the i-th parameter as an int.
func (cd callbackData) param(i int) (int, bool) {
	if i >= len(cd.Params) {
		return 0, false
	}
	v, err := strconv.Atoi(cd.Params[i])
	if err != nil {
		return 0, false
	}
	return v, true
}

// buildTopicCallback starts a quiz in the category with the upstream id.
func buildTopicCallback(categoryID int) string {
	return callbackData{Action: actionTopic, Params: []string{strconv.Itoa(categoryID)}}.encode()
}

// buildAnswerCallback picks option opt of question number.
// Option indexes keep the payload under the 64 byte limit.
func buildAnswerCallback(number, opt int) string {
	return callbackData{Action: actionAnswer, Params: []string{strconv.Itoa(number), strconv.Itoa(opt)}}.encode()
}

func buildExplainCallback(number int) string {
	return callbackData{Action: actionExplain, Params: []string{strconv.Itoa(number)}}.encode()
}
