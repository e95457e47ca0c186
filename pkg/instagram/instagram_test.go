package instagram

import (
	"net/http"
	"testing"
	"time"

	"igkit/pkg/config"
	"igkit/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWiresAllServices(t *testing.T) {
	ig := New("flkrFMziAva", config.DefaultConfig())

	assert.NotNil(t, ig.Authentication)
	assert.NotNil(t, ig.Account)
	assert.NotNil(t, ig.Search)
	assert.NotNil(t, ig.Stories)
	assert.NotNil(t, ig.Media)
	assert.NotNil(t, ig.Direct)
	assert.NotNil(t, ig.Session())
	assert.Equal(t, "flkrFMziAva", ig.Session().Snapshot().InstanceID)
}

func TestRestoreRoundTrip(t *testing.T) {
	ig := New("flkrFMziAva", config.DefaultConfig())
	ig.Session().SetPrimaryKey("42")

	data, err := ig.SessionData()
	require.NoError(t, err)

	restored, err := Restore("flkrFMziAva", data, config.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "42", restored.Session().Snapshot().PrimaryKey)
}

func TestRestoreInvalidData(t *testing.T) {
	_, err := Restore("seed", "{broken", config.DefaultConfig())
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	httpClient := &http.Client{Timeout: 3 * time.Second}
	var sawResponse bool

	ig := New("seed", config.DefaultConfig(),
		WithLogger(logger.NewTestLogger()),
		WithHTTPClient(httpClient),
		WithResponseLogger(func(res *Response) { sawResponse = true }),
	)

	assert.Same(t, httpClient, ig.client.httpClient)
	require.NotNil(t, ig.client.responseLogger)
	ig.client.responseLogger(&Response{})
	assert.True(t, sawResponse)
}

func TestWithTimeout(t *testing.T) {
	ig := New("seed", config.DefaultConfig(), WithTimeout(7*time.Second))

	assert.Equal(t, 7*time.Second, ig.client.httpClient.Timeout)
}
