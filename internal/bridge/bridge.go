// Package bridge turns form submissions into backend requests and rendered outputs.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/inventario-agricola/inventario/internal/backend"
	"github.com/inventario-agricola/inventario/internal/inventory"
)

// ErrUnknownForm is returned for a form that does not exist or is disabled.
var ErrUnknownForm = errors.New("bridge: unknown form")

// DefaultToastDuration is how long a toast stays on screen.
const DefaultToastDuration = 2 * time.Second

// Backend is the REST surface of one collection.
type Backend interface {
	Create(ctx context.Context, record any) (backend.Response, error)
	Get(ctx context.Context, id string) (backend.Response, error)
	Update(ctx context.Context, id string, record any) (backend.Response, error)
	Delete(ctx context.Context, id string) (backend.Response, error)
	List(ctx context.Context, q inventory.Query) (backend.Response, error)
	Related(ctx context.Context, id, rel string) (backend.Response, error)
}

// Recorder counts form outcomes.
type Recorder interface {
	RecordFormOutcome(form, outcome string)
}

// Form outcomes reported to the Recorder.
const (
	OutcomeSuccess   = "success"
	OutcomeHTTPError = "http_error"
	OutcomeInvalid   = "invalid"
	OutcomeFailed    = "failed"
	OutcomeStale     = "stale"
)

// Config selects the enabled resources and the notification behaviour.
type Config struct {
	Resources     []inventory.Resource
	Toasts        bool
	ToastDuration time.Duration
	Language      string
}

// Option customises a Bridge.
type Option func(*Bridge)

// WithSequencer replaces the in-memory request token sequencer.
func WithSequencer(s Sequencer) Option {
	return func(b *Bridge) {
		if s != nil {
			b.sequencer = s
		}
	}
}

// WithRecorder registers an outcome recorder.
func WithRecorder(r Recorder) Option {
	return func(b *Bridge) {
		b.recorder = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// Bridge executes form operations against the seeds and suppliers collections.
type Bridge struct {
	seeds     Backend
	suppliers Backend
	cfg       Config
	tr        Translator
	validate  *validator.Validate
	sequencer Sequencer
	recorder  Recorder
	logger    *slog.Logger
	enabled   map[FormID]Form
	order     []FormID
}

// New builds a Bridge. Resources defaults to both collections.
func New(seeds, suppliers Backend, cfg Config, opts ...Option) *Bridge {
	if len(cfg.Resources) == 0 {
		cfg.Resources = []inventory.Resource{inventory.ResourceSeeds, inventory.ResourceSuppliers}
	}
	if cfg.ToastDuration <= 0 {
		cfg.ToastDuration = DefaultToastDuration
	}
	b := &Bridge{
		seeds:     seeds,
		suppliers: suppliers,
		cfg:       cfg,
		tr:        NewTranslator(cfg.Language),
		validate:  validator.New(),
		sequencer: NewMemorySequencer(),
		logger:    slog.Default(),
		enabled:   make(map[FormID]Form),
	}
	for _, opt := range opts {
		opt(b)
	}
	for _, form := range formCatalog {
		if !b.resourceEnabled(form.Resource) {
			continue
		}
		b.enabled[form.ID] = form
		b.order = append(b.order, form.ID)
	}
	return b
}

// NewFromDirectory wires the clients of dir.
func NewFromDirectory(dir *backend.Directory, cfg Config, opts ...Option) *Bridge {
	return New(dir.Seeds, dir.Suppliers, cfg, opts...)
}

func (b *Bridge) resourceEnabled(r inventory.Resource) bool {
	for _, enabled := range b.cfg.Resources {
		if enabled == r {
			return true
		}
	}
	return false
}

// Translator returns the translator used for messages and labels.
func (b *Bridge) Translator() Translator {
	return b.tr
}

// Resources returns the enabled resources in configuration order.
func (b *Bridge) Resources() []inventory.Resource {
	out := make([]inventory.Resource, 0, len(b.cfg.Resources))
	for _, r := range b.cfg.Resources {
		for _, id := range b.order {
			if b.enabled[id].Resource == r {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Forms returns the enabled forms in page order with translated labels.
func (b *Bridge) Forms() []Form {
	out := make([]Form, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.enabled[id].translated(b.tr))
	}
	return out
}

// Form looks up one enabled form.
func (b *Bridge) Form(id FormID) (Form, bool) {
	form, ok := b.enabled[id]
	if !ok {
		return Form{}, false
	}
	return form.translated(b.tr), true
}

// Submit runs a form under a request token. The output is marked stale when a
// newer submission of the same form in the same scope started meanwhile.
func (b *Bridge) Submit(ctx context.Context, scope string, id FormID, v Values) (Output, error) {
	if _, ok := b.enabled[id]; !ok {
		return Output{}, fmt.Errorf("%w: %s", ErrUnknownForm, id)
	}
	key := tokenScope(scope, id)
	token, err := b.sequencer.Next(ctx, key)
	if err != nil {
		return Output{}, fmt.Errorf("bridge: issue token: %w", err)
	}

	out, err := b.Run(ctx, id, v)
	if err != nil {
		return Output{}, err
	}
	out.Token = token

	current, err := b.sequencer.Current(context.WithoutCancel(ctx), key)
	if err != nil {
		b.logger.Warn("read request token", slog.String("form", string(id)), slog.Any("error", err))
		return out, nil
	}
	if current != token {
		out.Stale = true
		b.record(id, OutcomeStale)
		b.logger.Debug("stale form output", slog.String("form", string(id)), slog.Uint64("token", token), slog.Uint64("current", current))
	}
	return out, nil
}

func tokenScope(scope string, id FormID) string {
	if scope == "" {
		return string(id)
	}
	return scope + ":" + string(id)
}

// Run executes a form without request tokens.
func (b *Bridge) Run(ctx context.Context, id FormID, v Values) (Output, error) {
	if _, ok := b.enabled[id]; !ok {
		return Output{}, fmt.Errorf("%w: %s", ErrUnknownForm, id)
	}
	switch id {
	case FormSeedCreate:
		return b.CreateSeed(ctx, v), nil
	case FormSeedGet:
		return b.GetSeed(ctx, v), nil
	case FormSeedUpdate:
		return b.UpdateSeed(ctx, v), nil
	case FormSeedDelete:
		return b.DeleteSeed(ctx, v), nil
	case FormSeedList:
		return b.ListSeeds(ctx, v), nil
	case FormSupplierCreate:
		return b.CreateSupplier(ctx, v), nil
	case FormSupplierGet:
		return b.GetSupplier(ctx, v), nil
	case FormSupplierUpdate:
		return b.UpdateSupplier(ctx, v), nil
	case FormSupplierDelete:
		return b.DeleteSupplier(ctx, v), nil
	case FormSupplierList:
		return b.ListSuppliers(ctx, v), nil
	case FormSupplierTop:
		return b.TopSeeds(ctx, v), nil
	}
	return Output{}, fmt.Errorf("%w: %s", ErrUnknownForm, id)
}

// CreateSeed posts a new seed.
func (b *Bridge) CreateSeed(ctx context.Context, v Values) Output {
	seed := seedFromValues(v, v.Text("codigo"))
	if out, ok := b.require(FormSeedCreate, "codigo", seed.Code); !ok {
		return out
	}
	resp, err := b.seeds.Create(ctx, seed)
	return b.complete(FormSeedCreate, resp, err)
}

// GetSeed fetches one seed by code.
func (b *Bridge) GetSeed(ctx context.Context, v Values) Output {
	code := v.Text("codigo")
	if out, ok := b.require(FormSeedGet, "codigo", code); !ok {
		return out
	}
	resp, err := b.seeds.Get(ctx, code)
	return b.complete(FormSeedGet, resp, err)
}

// UpdateSeed replaces the seed addressed by codigo.
func (b *Bridge) UpdateSeed(ctx context.Context, v Values) Output {
	code := v.Text("codigo")
	if out, ok := b.require(FormSeedUpdate, "codigo", code); !ok {
		return out
	}
	resp, err := b.seeds.Update(ctx, code, seedFromValues(v, code))
	return b.complete(FormSeedUpdate, resp, err)
}

// DeleteSeed removes one seed by code.
func (b *Bridge) DeleteSeed(ctx context.Context, v Values) Output {
	code := v.Text("codigo")
	if out, ok := b.require(FormSeedDelete, "codigo", code); !ok {
		return out
	}
	resp, err := b.seeds.Delete(ctx, code)
	return b.completeDelete(FormSeedDelete, resp, err)
}

// ListSeeds lists seeds matching the optional filters.
func (b *Bridge) ListSeeds(ctx context.Context, v Values) Output {
	filter := inventory.SeedFilter{
		Type:           v.Text("tipo"),
		MinGermination: v.Text("germinacionMin"),
		From:           v.Text("desde"),
		To:             v.Text("hasta"),
	}
	resp, err := b.seeds.List(ctx, filter.Query())
	return b.complete(FormSeedList, resp, err)
}

// CreateSupplier posts a new supplier.
func (b *Bridge) CreateSupplier(ctx context.Context, v Values) Output {
	supplier := supplierFromValues(v, v.Text("nit"))
	if out, ok := b.require(FormSupplierCreate, "nit", supplier.TaxID); !ok {
		return out
	}
	resp, err := b.suppliers.Create(ctx, supplier)
	return b.complete(FormSupplierCreate, resp, err)
}

// GetSupplier fetches one supplier by tax ID.
func (b *Bridge) GetSupplier(ctx context.Context, v Values) Output {
	nit := v.Text("nit")
	if out, ok := b.require(FormSupplierGet, "nit", nit); !ok {
		return out
	}
	resp, err := b.suppliers.Get(ctx, nit)
	return b.complete(FormSupplierGet, resp, err)
}

// UpdateSupplier replaces the supplier addressed by nit.
func (b *Bridge) UpdateSupplier(ctx context.Context, v Values) Output {
	nit := v.Text("nit")
	if out, ok := b.require(FormSupplierUpdate, "nit", nit); !ok {
		return out
	}
	resp, err := b.suppliers.Update(ctx, nit, supplierFromValues(v, nit))
	return b.complete(FormSupplierUpdate, resp, err)
}

// DeleteSupplier removes one supplier by tax ID.
func (b *Bridge) DeleteSupplier(ctx context.Context, v Values) Output {
	nit := v.Text("nit")
	if out, ok := b.require(FormSupplierDelete, "nit", nit); !ok {
		return out
	}
	resp, err := b.suppliers.Delete(ctx, nit)
	return b.completeDelete(FormSupplierDelete, resp, err)
}

// ListSuppliers lists suppliers. nombre takes precedence over ciudad and activo.
func (b *Bridge) ListSuppliers(ctx context.Context, v Values) Output {
	filter := inventory.SupplierFilter{
		Name:       v.Text("nombre"),
		City:       v.Text("ciudad"),
		ActiveOnly: v.Checked("activo"),
	}
	resp, err := b.suppliers.List(ctx, filter.Query())
	return b.complete(FormSupplierList, resp, err)
}

// TopSeeds fetches a supplier together with its latest seeds.
func (b *Bridge) TopSeeds(ctx context.Context, v Values) Output {
	nit := v.Text("nit")
	if out, ok := b.require(FormSupplierTop, "nit", nit); !ok {
		return out
	}
	resp, err := b.suppliers.Related(ctx, nit, "top2")
	return b.complete(FormSupplierTop, resp, err)
}

func seedFromValues(v Values, code string) inventory.Seed {
	return inventory.Seed{
		Code:          code,
		Name:          v.Text("nombre"),
		Price:         v.Float("precio"),
		Stock:         v.Int("stock"),
		SeedType:      v.Text("tipoSemilla"),
		Germination:   v.Float("porcentajeGerminacion"),
		SupplierTaxID: v.Text("proveedorNit"),
		IntakeAt:      v.DateTime("fechaIngreso"),
	}
}

func supplierFromValues(v Values, nit string) inventory.Supplier {
	return inventory.Supplier{
		TaxID:        nit,
		Name:         v.Text("nombre"),
		City:         v.Text("ciudad"),
		Phone:        v.Text("telefono"),
		RegisteredAt: v.DateTime("fechaRegistro"),
		Active:       v.Checked("activo"),
	}
}

// require checks the identifier of a form. On failure it returns the rendered
// validation error.
func (b *Bridge) require(id FormID, field, value string) (Output, bool) {
	if err := b.validate.Var(value, "required"); err == nil {
		return Output{}, true
	}
	err := &ValidationError{Field: field, Message: b.tr.T(formCatalogMessage(id))}
	b.record(id, OutcomeInvalid)
	b.logger.Debug("form rejected", slog.String("form", string(id)), slog.String("field", field))
	return Output{Form: id, Err: err, Toast: b.toast(ToastError, msgToastError)}, false
}

func formCatalogMessage(id FormID) string {
	for _, form := range formCatalog {
		if form.ID == id {
			return form.missing
		}
	}
	return msgToastError
}

func (b *Bridge) complete(id FormID, resp backend.Response, err error) Output {
	if err != nil {
		return b.failed(id, err)
	}
	out := Output{Form: id, Status: resp.Status, Data: decodeBody(resp.Body)}
	if resp.OK() {
		out.Toast = b.toast(ToastSuccess, msgToastSuccess)
	}
	b.finished(id, resp.Status)
	return out
}

// completeDelete renders a non-JSON reply as its text, or a placeholder when empty.
func (b *Bridge) completeDelete(id FormID, resp backend.Response, err error) Output {
	if err != nil || resp.IsJSON() {
		return b.complete(id, resp, err)
	}
	text := string(resp.Body)
	if text == "" {
		text = NoBodyPlaceholder
	}
	out := Output{Form: id, Status: resp.Status, Data: encodeString(text)}
	if resp.OK() {
		out.Toast = b.toast(ToastSuccess, msgToastDeleted)
	}
	b.finished(id, resp.Status)
	return out
}

func (b *Bridge) failed(id FormID, err error) Output {
	b.record(id, OutcomeFailed)
	b.logger.Warn("backend request failed", slog.String("form", string(id)), slog.Any("error", err))
	return Output{Form: id, Err: err, Toast: b.toast(ToastError, msgToastError)}
}

func (b *Bridge) finished(id FormID, status int) {
	outcome := OutcomeSuccess
	if status >= http.StatusBadRequest {
		outcome = OutcomeHTTPError
	}
	b.record(id, outcome)
	b.logger.Info("form completed", slog.String("form", string(id)), slog.Int("status", status))
}

func (b *Bridge) toast(kind ToastKind, key string) *Toast {
	if !b.cfg.Toasts {
		return nil
	}
	return &Toast{Kind: kind, Message: b.tr.T(key), DurationMS: b.cfg.ToastDuration.Milliseconds()}
}

func (b *Bridge) record(id FormID, outcome string) {
	if b.recorder != nil {
		b.recorder.RecordFormOutcome(string(id), outcome)
	}
}
