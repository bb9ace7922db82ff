package thirdparty_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stiven2023/vio-app-sub001/internal/application/dto"
	"github.com/Stiven2023/vio-app-sub001/internal/application/thirdparty"
	"github.com/Stiven2023/vio-app-sub001/internal/domain"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/repository"
	"github.com/Stiven2023/vio-app-sub001/internal/testutil"
)

var juridica = entity.Actor{UserID: "u-juridica", Role: entity.RoleAdministrador}

func TestProjectActivation(t *testing.T) {
	assert.True(t, thirdparty.ProjectActivation(nil, true))
	assert.False(t, thirdparty.ProjectActivation(nil, false))
	assert.True(t, thirdparty.ProjectActivation(&entity.LegalStatus{Status: entity.LegalStatusVigente}, false))
	assert.False(t, thirdparty.ProjectActivation(&entity.LegalStatus{Status: entity.LegalStatusEnRevision}, true))
	assert.False(t, thirdparty.ProjectActivation(&entity.LegalStatus{Status: entity.LegalStatusBloqueado}, true))
}

func TestDocumentValidator(t *testing.T) {
	v := thirdparty.NewDocumentValidator()

	check := v.Validate(thirdparty.IdentificationNIT, map[string]string{thirdparty.DocRUT: "https://docs/rut.pdf"})
	assert.False(t, check.IsValid)
	assert.Equal(t, []string{thirdparty.DocCamaraComercio, thirdparty.DocCedulaRepresentante}, check.MissingDocuments)

	check = v.Validate(thirdparty.IdentificationPAS, map[string]string{thirdparty.DocPasaporte: "https://docs/pas.pdf"})
	assert.True(t, check.IsValid)
	assert.Empty(t, check.MissingDocuments)

	check = v.Validate(thirdparty.IdentificationCC, map[string]string{thirdparty.DocCedula: "  ", thirdparty.DocRUT: "x"})
	assert.Equal(t, []string{thirdparty.DocCedula}, check.MissingDocuments)

	assert.False(t, v.Validate("TI", nil).IsValid)
}

func TestGuard_TipoNoRegistrado(t *testing.T) {
	store := testutil.NewMemStore()
	g := thirdparty.NewGuard()
	err := store.RunInTx(context.Background(), func(tx repository.Store) error {
		return g.OnIdentityEdit(context.Background(), tx, entity.ThirdPartySupplier, "p-1", juridica, "")
	})
	rej, ok := domain.AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, "entity_type", rej.Field)
}

func newClientUseCase() (*thirdparty.ClientUseCase, *testutil.RecordingNotifier) {
	n := &testutil.RecordingNotifier{}
	return thirdparty.NewClientUseCase(testutil.NewMemStore(), n, zerolog.Nop()), n
}

func ccRequest(ident string) dto.CreateClientRequest {
	return dto.CreateClientRequest{
		Name:               "Liga de Fútbol",
		IdentificationType: thirdparty.IdentificationCC,
		Identification:     ident,
		Documents: map[string]string{
			thirdparty.DocCedula: "https://docs/cc.pdf",
			thirdparty.DocRUT:    "https://docs/rut.pdf",
		},
	}
}

func TestClient_CreateYDuplicado(t *testing.T) {
	uc, _ := newClientUseCase()
	ctx := context.Background()

	out, err := uc.Create(ctx, juridica, ccRequest("1020304050"))
	require.NoError(t, err)
	assert.True(t, out.IsActive)
	assert.Empty(t, out.LegalStatus)

	_, err = uc.Create(ctx, juridica, ccRequest("1020304050"))
	rej, ok := domain.AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindConflict, rej.Kind)

	missing := ccRequest("999")
	delete(missing.Documents, thirdparty.DocRUT)
	_, err = uc.Create(ctx, juridica, missing)
	rej, ok = domain.AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, "documents", rej.Field)
	assert.Equal(t, []string{thirdparty.DocRUT}, rej.Details["missing_documents"])
}

func TestClient_EdicionDeIdentidadLoDejaEnRevision(t *testing.T) {
	uc, n := newClientUseCase()
	ctx := context.Background()
	created, err := uc.Create(ctx, juridica, ccRequest("1020304050"))
	require.NoError(t, err)

	phone := "3001234567"
	out, err := uc.Update(ctx, juridica, created.ID, dto.UpdateClientRequest{Phone: &phone})
	require.NoError(t, err)
	assert.True(t, out.IsActive)
	assert.Empty(t, n.Sent())

	ident := "1020304051"
	out, err = uc.Update(ctx, juridica, created.ID, dto.UpdateClientRequest{Identification: &ident})
	require.NoError(t, err)
	assert.False(t, out.IsActive)
	assert.Equal(t, entity.LegalStatusEnRevision, out.LegalStatus)
	require.Len(t, n.Sent(), 1)
	assert.Equal(t, entity.EventClientUnderReview, n.Sent()[0].Event)

	out, err = uc.SetLegalStatus(ctx, juridica, created.ID, dto.SetLegalStatusRequest{Status: entity.LegalStatusVigente})
	require.NoError(t, err)
	assert.True(t, out.IsActive)

	got, err := uc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.Equal(t, "1020304051", got.Identification)
}

func TestClient_GetInexistente(t *testing.T) {
	uc, _ := newClientUseCase()
	_, err := uc.Get(context.Background(), "nope")
	rej, ok := domain.AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindNotFound, rej.Kind)
}
