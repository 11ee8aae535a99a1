package permission

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saracristina-sh3/auth-suite-sub000/models"
)

type fakeRecords struct {
	records map[[3]int64]*models.UserModulePermission
}

func (f *fakeRecords) Get(_ context.Context, userID, moduloID, autarquiaID int64) (*models.UserModulePermission, error) {
	return f.records[[3]int64{userID, moduloID, autarquiaID}], nil
}

type fakeModules struct {
	active map[[2]int64]bool
}

func (f *fakeModules) IsActiveForAutarquia(_ context.Context, moduloID, autarquiaID int64) (bool, error) {
	return f.active[[2]int64{moduloID, autarquiaID}], nil
}

func testService() (*Service, *fakeRecords, *fakeModules) {
	records := &fakeRecords{records: map[[3]int64]*models.UserModulePermission{
		{10, 1, 1}: {
			UserID: 10, ModuloID: 1, AutarquiaID: 1, Ativo: true,
			PermissionFlags: models.PermissionFlags{PodeLer: true, PodeEscrever: true},
		},
		{10, 2, 1}: {
			UserID: 10, ModuloID: 2, AutarquiaID: 1, Ativo: false,
			PermissionFlags: models.PermissionFlags{PodeLer: true},
		},
	}}
	modules := &fakeModules{active: map[[2]int64]bool{
		{1, 1}: true,
		{2, 1}: true,
		{9, 9}: true,
	}}
	return NewService(records, modules), records, modules
}

func TestCheckGrantedFlags(t *testing.T) {
	svc, _, _ := testService()
	user := &models.User{ID: 10, Ativo: true}

	ok, err := svc.Check(context.Background(), user, 1, 1, Ler)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Check(context.Background(), user, 1, 1, Ler|Escrever)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Check(context.Background(), user, 1, 1, Excluir)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Check(context.Background(), user, 1, 1, Ler|Excluir)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckMissingRecordIsNotAnError(t *testing.T) {
	svc, _, _ := testService()
	user := &models.User{ID: 10, Ativo: true}

	ok, err := svc.Check(context.Background(), user, 9, 9, Ler)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckInactiveRecordGrantsNothing(t *testing.T) {
	svc, _, _ := testService()
	user := &models.User{ID: 10, Ativo: true}

	ok, err := svc.Check(context.Background(), user, 2, 1, Ler)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckDisabledModuleGrantsNothing(t *testing.T) {
	svc, _, modules := testService()
	user := &models.User{ID: 10, Ativo: true}

	// the row still grants read, but the tenant's module activation is off
	modules.active[[2]int64{1, 1}] = false

	ok, err := svc.Check(context.Background(), user, 1, 1, Ler)
	require.NoError(t, err)
	assert.False(t, ok)

	sum, err := svc.Summarize(context.Background(), user, 1, 1)
	require.NoError(t, err)
	assert.False(t, sum.TemAcesso)
	assert.False(t, sum.Flags.PodeLer)
}

func TestCheckSuperadminShortCircuit(t *testing.T) {
	svc, _, _ := testService()
	root := &models.User{ID: 1, IsSuperadmin: true, Ativo: true}

	ok, err := svc.Check(context.Background(), root, 9, 9, Ler|Escrever|Excluir|Admin)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSummarize(t *testing.T) {
	svc, _, _ := testService()
	user := &models.User{ID: 10, Ativo: true}

	sum, err := svc.Summarize(context.Background(), user, 1, 1)
	require.NoError(t, err)
	assert.True(t, sum.TemAcesso)
	assert.True(t, sum.Flags.PodeLer)
	assert.True(t, sum.Flags.PodeEscrever)
	assert.False(t, sum.Flags.PodeExcluir)

	// inactive row summarizes as no access
	sum, err = svc.Summarize(context.Background(), user, 2, 1)
	require.NoError(t, err)
	assert.False(t, sum.TemAcesso)
	assert.False(t, sum.Flags.PodeLer)

	// superadmin gets the full set without a row
	root := &models.User{ID: 1, IsSuperadmin: true, Ativo: true}
	sum, err = svc.Summarize(context.Background(), root, 9, 9)
	require.NoError(t, err)
	assert.True(t, sum.TemAcesso)
	assert.Equal(t, AllFlags(), sum.Flags)
}

func TestParseFlag(t *testing.T) {
	cases := map[string]Flag{
		"ler":           Ler,
		"pode_ler":      Ler,
		"read":          Ler,
		"Escrever":      Escrever,
		"pode_escrever": Escrever,
		"excluir":       Excluir,
		"delete":        Excluir,
		"admin":         Admin,
		"e_admin":       Admin,
	}
	for in, want := range cases {
		got, ok := ParseFlag(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseFlag("gerente")
	assert.False(t, ok)
}

func TestHasRejectsEmptyMask(t *testing.T) {
	assert.False(t, Has(AllFlags(), 0))
}
