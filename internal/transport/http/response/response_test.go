package response

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type user struct {
	ID string `json:"id"`
}

func TestEnvelope(t *testing.T) {
	b, err := json.Marshal(OK(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":0,"msg":"OK","data":{}}`, string(b))

	var u *user
	b, err = json.Marshal(OK(u))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":0,"msg":"OK","data":null}`, string(b))

	b, err = json.Marshal(Error(CodeNotFound, ""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":404,"msg":"Not Found","data":{}}`, string(b))

	b, err = json.Marshal(Error(CodeBadGateway, "card declined"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":502,"msg":"card declined","data":{}}`, string(b))
}
