package wappalyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTechnologiesSorted(t *testing.T) {
	w, err := NewWappalyzer()
	require.NoError(t, err)

	header := map[string][]string{
		"Server":       {"nginx"},
		"X-Powered-By": {"PHP/8.1.2"},
	}
	techs := w.Technologies(header, []byte("<html><head><title>x</title></head></html>"))
	require.NotEmpty(t, techs)
	assert.IsNonDecreasing(t, techs)
}

func TestTechnologiesNilReceiver(t *testing.T) {
	var w *Wappalyzer
	assert.Nil(t, w.Technologies(nil, nil))
}
