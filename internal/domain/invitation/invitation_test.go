package invitation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntityType(t *testing.T) {
	for _, typ := range AllEntityTypes() {
		got, err := ParseEntityType(string(typ))
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}

	_, err := ParseEntityType("App\\Models\\InvoiceInvitation")
	assert.Error(t, err)

	_, err = ParseEntityType("")
	assert.Error(t, err)
}

func TestInvitation_EmailError(t *testing.T) {
	inv := &Invitation{}

	inv.RecordEmailError("mailbox full")
	require.NotNil(t, inv.EmailError)
	assert.Equal(t, "mailbox full", *inv.EmailError)

	inv.ClearEmailError()
	assert.Nil(t, inv.EmailError)
}
