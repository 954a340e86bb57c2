package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"caoguia-api/internal/adapters/persistence/models"
	"caoguia-api/internal/adapters/persistence/repositories"
	"caoguia-api/internal/pkg/jwt"
	"caoguia-api/internal/pkg/password"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var errStoreDown = errors.New("store unavailable")

func mustHash(t *testing.T, secret string) string {
	t.Helper()
	h, err := password.HashWithCost(secret, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return h
}

func testCodec() *jwt.Codec {
	return jwt.NewCodec("test-secret", time.Hour)
}

// fakeUserRepo is an in-memory UserRepository
type fakeUserRepo struct {
	mu     sync.Mutex
	rows   map[uint]*models.User
	nextID uint
	err    error
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{rows: map[uint]*models.User{}, nextID: 1}
	for _, u := range users {
		if u.ID == 0 {
			u.ID = r.nextID
		}
		if u.ID >= r.nextID {
			r.nextID = u.ID + 1
		}
		cp := *u
		r.rows[u.ID] = &cp
	}
	return r
}

func (r *fakeUserRepo) FindActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.rows {
		if u.Email == email && u.Ativo {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindActiveByID(ctx context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if u, ok := r.rows[id]; ok && u.Ativo {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.Email == user.Email || (user.CPF != "" && u.CPF == user.CPF) {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = r.nextID
	r.nextID++
	cp := *user
	r.rows[user.ID] = &cp
	return nil
}

// Update copies profile fields only, like the column-scoped UPDATE
func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[user.ID]
	if !ok || !u.Ativo {
		return false, nil
	}
	u.Nome, u.Email, u.Telefone = user.Nome, user.Email, user.Telefone
	u.EnderecoLogradouro, u.EnderecoNumero, u.EnderecoComplemento = user.EnderecoLogradouro, user.EnderecoNumero, user.EnderecoComplemento
	u.EnderecoCEP, u.EnderecoCidade, u.EnderecoEstado, u.EnderecoBairro = user.EnderecoCEP, user.EnderecoCidade, user.EnderecoEstado, user.EnderecoBairro
	return true, nil
}

func (r *fakeUserRepo) SetAdmin(ctx context.Context, id uint, isAdmin bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[id]
	if !ok || !u.Ativo {
		return false, nil
	}
	u.Administrador = isAdmin
	return true, nil
}

func (r *fakeUserRepo) Deactivate(ctx context.Context, id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[id]
	if !ok || !u.Ativo {
		return false, nil
	}
	u.Ativo = false
	return true, nil
}

func (r *fakeUserRepo) ExistsByEmailOrCPF(ctx context.Context, email, cpf string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.Email == email || u.CPF == cpf {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) EmailTakenByOther(ctx context.Context, email string, id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.Email == email && u.ID != id {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ListByApprovalStatus(ctx context.Context, status string, offset, limit int) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*models.User
	for _, u := range r.rows {
		if u.StatusValidacao == status {
			cp := *u
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return []*models.User{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeUserRepo) SetApprovalStatus(ctx context.Context, id uint, status string, reason *string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[id]
	if !ok {
		return false, nil
	}
	u.StatusValidacao = status
	u.MotivoRejeicao = reason
	return true, nil
}

// set mutates a stored row in place, simulating changes made by another request
func (r *fakeUserRepo) set(id uint, fn func(u *models.User)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.rows[id])
}

// fakeInstitutionRepo is an in-memory InstitutionRepository
type fakeInstitutionRepo struct {
	mu     sync.Mutex
	rows   map[uint]*models.Institution
	nextID uint
	err    error
}

func newFakeInstitutionRepo(institutions ...*models.Institution) *fakeInstitutionRepo {
	r := &fakeInstitutionRepo{rows: map[uint]*models.Institution{}, nextID: 1}
	for _, i := range institutions {
		if i.ID == 0 {
			i.ID = r.nextID
		}
		if i.ID >= r.nextID {
			r.nextID = i.ID + 1
		}
		cp := *i
		r.rows[i.ID] = &cp
	}
	return r
}

func (r *fakeInstitutionRepo) FindByEmail(ctx context.Context, email string) (*models.Institution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, i := range r.rows {
		if i.Email == email {
			cp := *i
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeInstitutionRepo) FindActiveByID(ctx context.Context, id uint) (*models.Institution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if i, ok := r.rows[id]; ok && i.Ativo {
		cp := *i
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeInstitutionRepo) FindByCNPJ(ctx context.Context, cnpj string) (*models.Institution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.rows {
		if i.CNPJ == cnpj {
			cp := *i
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeInstitutionRepo) Create(ctx context.Context, institution *models.Institution) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.rows {
		if i.Email == institution.Email || i.CNPJ == institution.CNPJ {
			return gorm.ErrDuplicatedKey
		}
	}
	institution.ID = r.nextID
	r.nextID++
	cp := *institution
	r.rows[institution.ID] = &cp
	return nil
}

func (r *fakeInstitutionRepo) Update(ctx context.Context, institution *models.Institution) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.rows[institution.ID]
	if !ok || !i.Ativo {
		return false, nil
	}
	i.RazaoSocial, i.Email = institution.RazaoSocial, institution.Email
	i.EnderecoLogradouro, i.EnderecoNumero, i.EnderecoComplemento = institution.EnderecoLogradouro, institution.EnderecoNumero, institution.EnderecoComplemento
	i.EnderecoCEP, i.EnderecoCidade, i.EnderecoEstado, i.EnderecoBairro = institution.EnderecoCEP, institution.EnderecoCidade, institution.EnderecoEstado, institution.EnderecoBairro
	return true, nil
}

func (r *fakeInstitutionRepo) ExistsByEmailOrCNPJ(ctx context.Context, email, cnpj string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.rows {
		if i.Email == email || i.CNPJ == cnpj {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeInstitutionRepo) EmailTakenByOther(ctx context.Context, email string, id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.rows {
		if i.Email == email && i.ID != id {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeInstitutionRepo) ListByApprovalStatus(ctx context.Context, status string, offset, limit int) ([]*models.Institution, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*models.Institution
	for _, i := range r.rows {
		if i.StatusValidacao == status {
			cp := *i
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(a, b int) bool { return all[a].ID < all[b].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return []*models.Institution{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeInstitutionRepo) SetApprovalStatus(ctx context.Context, id uint, status string, reason *string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.rows[id]
	if !ok {
		return false, nil
	}
	i.StatusValidacao = status
	i.MotivoRejeicao = reason
	return true, nil
}

func (r *fakeInstitutionRepo) set(id uint, fn func(i *models.Institution)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.rows[id])
}

// fakeGuideDogRepo is an in-memory GuideDogRepository
type fakeGuideDogRepo struct {
	mu     sync.Mutex
	rows   map[uint]*models.GuideDog
	nextID uint
}

func newFakeGuideDogRepo() *fakeGuideDogRepo {
	return &fakeGuideDogRepo{rows: map[uint]*models.GuideDog{}, nextID: 1}
}

func (r *fakeGuideDogRepo) Create(ctx context.Context, dog *models.GuideDog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.rows {
		if d.NumeroRegistro == dog.NumeroRegistro {
			return gorm.ErrDuplicatedKey
		}
	}
	dog.ID = r.nextID
	r.nextID++
	cp := *dog
	r.rows[dog.ID] = &cp
	return nil
}

func (r *fakeGuideDogRepo) ExistsByRegistration(ctx context.Context, number string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.rows {
		if d.NumeroRegistro == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeGuideDogRepo) list(match func(d *models.GuideDog) bool) []*models.GuideDog {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.GuideDog
	for _, d := range r.rows {
		if d.Ativo && match(d) {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeGuideDogRepo) ListActiveByUser(ctx context.Context, userID uint) ([]*models.GuideDog, error) {
	return r.list(func(d *models.GuideDog) bool {
		return d.IDUsuario != nil && *d.IDUsuario == userID
	}), nil
}

func (r *fakeGuideDogRepo) ListActiveByInstitution(ctx context.Context, institutionID uint) ([]*models.GuideDog, error) {
	return r.list(func(d *models.GuideDog) bool {
		return d.IDInstituicao != nil && *d.IDInstituicao == institutionID
	}), nil
}

func (r *fakeGuideDogRepo) FindActiveByID(ctx context.Context, id uint) (*models.GuideDog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.rows[id]; ok && d.Ativo {
		cp := *d
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeGuideDogRepo) Deactivate(ctx context.Context, id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.rows[id]
	if !ok || !d.Ativo {
		return false, nil
	}
	d.Ativo = false
	return true, nil
}

func (r *fakeGuideDogRepo) RegistrationTakenByOther(ctx context.Context, number string, id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.rows {
		if d.NumeroRegistro == number && d.ID != id {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeGuideDogRepo) UpdateForOwner(ctx context.Context, dog *models.GuideDog, ownerColumn string, ownerID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.rows[dog.ID]
	if !ok || !d.Ativo {
		return false, nil
	}
	owner := d.IDUsuario
	if ownerColumn == repositories.DogOwnerInstitution {
		owner = d.IDInstituicao
	}
	if owner == nil || *owner != ownerID {
		return false, nil
	}
	d.Nome, d.Sexo, d.Cor = dog.Nome, dog.Sexo, dog.Cor
	d.DataNascimento, d.Raca, d.NumeroRegistro = dog.DataNascimento, dog.Raca, dog.NumeroRegistro
	return true, nil
}

// fakeCardRepo is an in-memory CardRepository joined against the user and dog fakes
type fakeCardRepo struct {
	mu        sync.Mutex
	rows      map[uint]*models.Card
	nextID    uint
	users     *fakeUserRepo
	dogs      *fakeGuideDogRepo
	createErr []error
}

func newFakeCardRepo(users *fakeUserRepo, dogs *fakeGuideDogRepo) *fakeCardRepo {
	return &fakeCardRepo{rows: map[uint]*models.Card{}, nextID: 1, users: users, dogs: dogs}
}

func (r *fakeCardRepo) Create(ctx context.Context, card *models.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.createErr) > 0 {
		err := r.createErr[0]
		r.createErr = r.createErr[1:]
		return err
	}
	for _, c := range r.rows {
		if c.IDCao == card.IDCao || c.Codigo == card.Codigo {
			return gorm.ErrDuplicatedKey
		}
	}
	card.ID = r.nextID
	r.nextID++
	cp := *card
	r.rows[card.ID] = &cp
	return nil
}

func (r *fakeCardRepo) ExistsForDog(ctx context.Context, dogID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if c.IDCao == dogID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCardRepo) FindByDog(ctx context.Context, dogID uint) (*models.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if c.IDCao == dogID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCardRepo) FindDetailsByCode(ctx context.Context, code string) (*models.CardDetails, error) {
	r.mu.Lock()
	var card *models.Card
	for _, c := range r.rows {
		if c.Codigo == code {
			cp := *c
			card = &cp
		}
	}
	r.mu.Unlock()
	if card == nil {
		return nil, gorm.ErrRecordNotFound
	}

	user, err := r.users.FindActiveByID(ctx, card.IDUsuario)
	if err != nil {
		return nil, err
	}
	dog, err := r.dogs.FindActiveByID(ctx, card.IDCao)
	if err != nil {
		return nil, err
	}
	return &models.CardDetails{
		Card:           *card,
		UsuarioNome:    user.Nome,
		UsuarioCPF:     user.CPF,
		CaoNome:        dog.Nome,
		NumeroRegistro: dog.NumeroRegistro,
	}, nil
}
