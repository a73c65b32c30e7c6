package rpc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fluttervet/fluttervet/internal/adapters/inbound/rpc"
)

func TestRecoverID(t *testing.T) {
	tests := []struct {
		name string
		line string
		want interface{}
	}{
		{"numeric id", `{"jsonrpc":"2.0","id":42,"method":`, float64(42)},
		{"negative id", `{"id": -7, "method": garbage`, float64(-7)},
		{"string id", `{"id": "req-9", "method": {{`, "req-9"},
		{"string id with escape", `{"id":"a\"b","params":`, `a"b`},
		{"spaced", `{ "id"  :  12 ,`, float64(12)},
		{"nested id before top-level id", `{"params":{"id":9},"id":7,"method":`, float64(7)},
		{"top-level id before nested id", `{"id":7,"params":{"id":9},"method":`, float64(7)},
		{"id inside string literal ignored", `{"params":{"note":"{\"id\":5}"},"id":6,"method":`, float64(6)},
		{"only nested id falls back to first", `{"params":{"id":9},"method":`, float64(9)},
		{"no id", `{"method":"tools/list"`, nil},
		{"empty", ``, nil},
		{"not json at all", `hello world`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rpc.RecoverID([]byte(tt.line)))
		})
	}
}

func TestIsNotification(t *testing.T) {
	assert.True(t, (&rpc.Message{Method: "notifications/initialized"}).IsNotification())
	assert.False(t, (&rpc.Message{Method: "initialize", Id: float64(1)}).IsNotification())
	assert.False(t, (&rpc.Message{Id: float64(1)}).IsNotification())
}

func TestNewResultMessage(t *testing.T) {
	msg := rpc.NewResultMessage("req-1", map[string]int{"n": 1})

	assert.Equal(t, "2.0", msg.Jsonrpc)
	assert.Equal(t, "req-1", msg.Id)
	assert.NotNil(t, msg.Result)
	assert.Nil(t, msg.Error)
}

func TestNewErrorMessage(t *testing.T) {
	msg := rpc.NewErrorMessage(float64(3), rpc.CodeMethodNotFound, "method not found: x", nil)

	assert.Equal(t, "2.0", msg.Jsonrpc)
	assert.Equal(t, float64(3), msg.Id)
	assert.Nil(t, msg.Result)
	assert.Equal(t, rpc.CodeMethodNotFound, msg.Error.Code)
	assert.Equal(t, "method not found: x", msg.Error.Error())
}
