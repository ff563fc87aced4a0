// Package provisioning implementa el alta de usuarios que abarca la base local y Keycloak.
//
//	Idle → LocalInsertDone → TokenObtained → RemoteCreated → Linked
//	                 └──────────────┴───────────────┴──→ Compensated
//
// No hay reintentos ni reanudación: cada invocación termina en Linked o Compensated.
package provisioning

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/cartelera-api/internal/application/ports"
	"github.com/jhoicas/cartelera-api/internal/domain"
	"github.com/jhoicas/cartelera-api/internal/domain/entity"
	"github.com/jhoicas/cartelera-api/internal/domain/repository"
)

// State estado del alta.
type State string

const (
	StateIdle            State = "idle"
	StateLocalInsertDone State = "local_insert_done"
	StateTokenObtained   State = "token_obtained"
	StateRemoteCreated   State = "remote_created"
	StateLinked          State = "linked"
	StateCompensated     State = "compensated"
)

// Pasos posteriores a la inserción local; son los que disparan compensación.
const (
	StepToken        = "token"
	StepRemoteCreate = "remote-create"
	StepLink         = "link"
)

// Resultados reportados al observer.
const (
	ResultLinked      = "linked"
	ResultDuplicate   = "duplicate"
	ResultCompensated = "compensated"
	ResultInvalid     = "invalid"
	ResultError       = "error"
)

// DefaultBcryptCost costo bcrypt de las contraseñas locales.
const DefaultBcryptCost = 12

// Config límites del alta.
type Config struct {
	StepTimeout time.Duration // plazo de cada llamada externa (DB o Keycloak)
	BcryptCost  int
}

// Saga orquesta el alta de un usuario local y su identidad en Keycloak.
type Saga struct {
	users    repository.UserRepository
	idp      ports.IdentityProvider
	observer ports.ProvisioningObserver
	cfg      Config
	log      zerolog.Logger
}

// NewSaga construye la saga. observer puede ser nil.
func NewSaga(
	users repository.UserRepository,
	idp ports.IdentityProvider,
	cfg Config,
	log zerolog.Logger,
	observer ports.ProvisioningObserver,
) *Saga {
	if cfg.StepTimeout <= 0 {
		cfg.StepTimeout = 10 * time.Second
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = DefaultBcryptCost
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Saga{
		users:    users,
		idp:      idp,
		observer: observer,
		cfg:      cfg,
		log:      log.With().Str("component", "user_provisioning").Logger(),
	}
}

// run estado de una invocación.
type run struct {
	id    string
	state State
	user  *entity.User
	log   zerolog.Logger
}

func (r *run) transition(to State) {
	r.log.Debug().Str("from", string(r.state)).Str("to", string(to)).Msg("alta de usuario: transición")
	r.state = to
}

// Provision crea el usuario local, su identidad en Keycloak y los vincula.
// Errores posibles: domain.ErrInvalidInput, domain.ErrDuplicateUser, *domain.ProvisioningError
// (errors.Is ErrProvisioningFailed) o un error de infraestructura previo a la inserción.
// La cancelación de ctx no interrumpe un alta ya iniciada; cada paso tiene su propio timeout.
func (s *Saga) Provision(ctx context.Context, profile entity.UserProfile) (*entity.User, error) {
	started := time.Now()
	ctx = context.WithoutCancel(ctx)

	profile.DNI = strings.TrimSpace(profile.DNI)
	profile.Name = strings.TrimSpace(profile.Name)

	r := &run{id: uuid.NewString(), state: StateIdle}
	r.log = s.log.With().Str("saga_id", r.id).Str("dni", profile.DNI).Logger()

	user, result, err := s.provision(ctx, r, profile)
	s.observer.ObserveProvisioning(result, time.Since(started))
	return user, err
}

func (s *Saga) provision(ctx context.Context, r *run, profile entity.UserProfile) (*entity.User, string, error) {
	if err := validateProfile(profile); err != nil {
		return nil, ResultInvalid, err
	}

	// Idle: chequeo rápido de duplicado. La garantía real es el índice único de la base.
	var existing *entity.User
	err := s.step(ctx, func(ctx context.Context) error {
		var err error
		existing, err = s.users.FindByDNI(ctx, profile.DNI)
		return err
	})
	if err != nil {
		return nil, ResultError, fmt.Errorf("buscar usuario por DNI: %w", err)
	}
	if existing != nil {
		r.log.Info().Msg("alta rechazada: DNI ya registrado")
		return nil, ResultDuplicate, domain.ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(profile.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, ResultError, fmt.Errorf("hashear password: %w", err)
	}
	now := time.Now()
	user := &entity.User{
		DNI:          profile.DNI,
		Name:         profile.Name,
		PasswordHash: string(hash),
		RoleID:       profile.RoleID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.step(ctx, func(ctx context.Context) error { return s.users.Create(ctx, user) }); err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateUser):
			r.log.Info().Msg("alta rechazada por índice único: DNI ya registrado")
			return nil, ResultDuplicate, domain.ErrDuplicateUser
		case errors.Is(err, domain.ErrInvalidInput):
			return nil, ResultInvalid, err
		}
		return nil, ResultError, fmt.Errorf("insertar usuario: %w", err)
	}
	r.user = user
	r.log = r.log.With().Int64("user_id", user.ID).Logger()
	r.transition(StateLocalInsertDone)

	var token string
	err = s.step(ctx, func(ctx context.Context) error {
		var err error
		token, err = s.idp.FetchServiceToken(ctx)
		return err
	})
	if err != nil {
		return nil, ResultCompensated, s.compensate(ctx, r, StepToken, err, "")
	}
	r.transition(StateTokenObtained)

	var ref string
	err = s.step(ctx, func(ctx context.Context) error {
		var err error
		ref, err = s.idp.CreateRemoteUser(ctx, profile, token)
		return err
	})
	if err != nil {
		return nil, ResultCompensated, s.compensate(ctx, r, StepRemoteCreate, err, "")
	}
	r.log = r.log.With().Str("id_keycloak", ref).Logger()
	r.transition(StateRemoteCreated)

	if err := s.step(ctx, func(ctx context.Context) error { return s.users.SetKeycloakID(ctx, profile.DNI, ref) }); err != nil {
		return nil, ResultCompensated, s.compensate(ctx, r, StepLink, err, ref)
	}
	user.IDKeycloak = &ref
	r.transition(StateLinked)
	r.log.Info().Msg("usuario creado y vinculado con Keycloak")

	return user, ResultLinked, nil
}

// compensate borra la fila local insertada y arma el error que ve el llamador.
// orphanRef no vacío indica que la identidad remota ya existe y queda sin vínculo local.
func (s *Saga) compensate(ctx context.Context, r *run, step string, cause error, orphanRef string) error {
	perr := &domain.ProvisioningError{Step: step, Cause: cause}
	r.log.Warn().Err(cause).Str("step", step).Str("state", string(r.state)).Msg("alta de usuario fallida, compensando")

	if err := s.step(ctx, func(ctx context.Context) error { return s.users.Delete(ctx, r.user.ID) }); err != nil {
		perr.Compensation = fmt.Errorf("%w: %v", domain.ErrCompensationIncomplete, err)
		r.log.Error().Err(err).Str("step", step).Msg("compensación incompleta: la fila local quedó sin vincular")
	}
	if orphanRef != "" {
		r.log.Error().Str("step", step).Msg("identidad remota huérfana en Keycloak: requiere conciliación manual")
	}
	r.transition(StateCompensated)
	return perr
}

// step ejecuta una llamada externa con su propio plazo. Un timeout cuenta como fallo del paso.
func (s *Saga) step(ctx context.Context, fn func(context.Context) error) error {
	stepCtx, cancel := context.WithTimeout(ctx, s.cfg.StepTimeout)
	defer cancel()
	return fn(stepCtx)
}

func validateProfile(p entity.UserProfile) error {
	var missing []string
	if p.DNI == "" {
		missing = append(missing, "dni")
	}
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if p.Password == "" {
		missing = append(missing, "password")
	}
	if p.RoleID <= 0 {
		missing = append(missing, "roleId")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: faltan %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}

type nopObserver struct{}

func (nopObserver) ObserveProvisioning(string, time.Duration) {}
