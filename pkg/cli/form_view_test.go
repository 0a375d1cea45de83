package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coralstor/console/pkg/forms"
)

func TestCreateFormDefaults(t *testing.T) {
	form, err := buildCreateForm(forms.NewIDAllocator())
	require.NoError(t, err)

	assert.False(t, form.Valid(), "name starts empty and required")

	form.Control("name").SetValue("archive")
	require.True(t, form.Valid())

	spec, err := specFromForm(form)
	require.NoError(t, err)

	assert.Equal(t, "archive", spec.Name)
	assert.Equal(t, "block", spec.Type)
	assert.Equal(t, defaultServiceSize, spec.Size)
	assert.Equal(t, 3, spec.ReplicaCount)
	assert.Empty(t, spec.Backend)
}

func TestCreateFormSizeRoundTrip(t *testing.T) {
	form, err := buildCreateForm(forms.NewIDAllocator())
	require.NoError(t, err)

	assert.Equal(t, "10 GiB", form.Control("size").Value())

	form.Control("name").SetValue("vol0")
	form.Control("size").SetValue("100 GiB")
	require.True(t, form.Valid())

	spec, err := specFromForm(form)
	require.NoError(t, err)
	assert.Equal(t, uint64(100<<30), spec.Size)
}

func TestCreateFormRejectsBadValues(t *testing.T) {
	form, err := buildCreateForm(forms.NewIDAllocator())
	require.NoError(t, err)

	form.Control("name").SetValue("Bad Name")
	assert.True(t, form.Control("name").HasError(forms.ErrCodePattern))

	form.Control("name").SetValue("ok-name")
	form.Control("type").SetValue("tape")
	assert.True(t, form.Control("type").HasError("type"))

	form.Control("type").SetValue("file")
	form.Control("replicas").SetValue("99")
	assert.True(t, form.Control("replicas").HasError(forms.ErrCodeMax))
}

func TestObjectServiceRequiresBackend(t *testing.T) {
	form, err := buildCreateForm(forms.NewIDAllocator())
	require.NoError(t, err)

	form.Control("name").SetValue("buckets")
	form.Control("type").SetValue("object")
	form.Control("backend").SetValue("")
	assert.True(t, form.Control("backend").HasError(forms.ErrCodeRequired))

	form.Control("backend").SetValue("hdd-pool")
	assert.True(t, form.Valid())

	spec, err := specFromForm(form)
	require.NoError(t, err)
	assert.Equal(t, "hdd-pool", spec.Backend)
}
