package components

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/cabdesk/internal/common"
	"github.com/Veraticus/cabdesk/internal/entry"
	"github.com/Veraticus/cabdesk/internal/model"
	"github.com/Veraticus/cabdesk/internal/service"
	"github.com/Veraticus/cabdesk/internal/tui/themes"
	"github.com/Veraticus/cabdesk/internal/tui/viewmodel"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Error banners shown by the entry form.
const (
	ErrFetchingCabs     = "Error fetching cabs"
	ErrFetchingFormData = "Error fetching form data"
	ErrSubmittingData   = "Error submitting data"
)

const numericCharLimit = 15

var errEntryNotLoaded = fmt.Errorf("%w: stored entry not loaded, press ctrl+r to reload", common.ErrInvalidInput)

type slotKind int

const (
	slotDate slotKind = iota
	slotCab
	slotCategory
	slotField
	slotSubmit
)

type formSlot struct {
	field entry.Field
	kind  slotKind
}

// FormConfig wires an EntryFormModel to the API.
type FormConfig struct {
	Cabs    service.CabDirectory
	Store   service.EntryStore
	Now     func() time.Time
	Theme   themes.Theme
	User    string
	Timeout time.Duration
}

// EntryFormModel records one cab-data entry per (date, cab, category).
type EntryFormModel struct {
	theme        themes.Theme
	cabsAPI      service.CabDirectory
	store        service.EntryStore
	err          error
	inputs       map[entry.FieldID]textinput.Model
	values       entry.Values
	user         string
	status       string
	pendingCab   string
	cabs         []model.Cab
	pendingKey   model.EntryKey
	existing     model.Entry
	spinner      spinner.Model
	dateInput    textinput.Model
	timeout      time.Duration
	cabIndex     int
	category     int
	focus        int
	width        int
	height       int
	loadingCabs  bool
	loadingEntry bool
	submitting   bool
	spinning     bool
	loaded       bool
}

// NewEntryFormModel creates the entry form. The date starts at today.
func NewEntryFormModel(cfg FormConfig) EntryFormModel {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	date := newInput("YYYY-MM-DD")
	date.CharLimit = len(model.DateLayout)
	date.SetValue(now().Format(model.DateLayout))

	m := EntryFormModel{
		theme:       cfg.Theme,
		cabsAPI:     cfg.Cabs,
		store:       cfg.Store,
		user:        cfg.User,
		timeout:     timeout,
		dateInput:   date,
		cabIndex:    -1,
		loadingCabs: true,
		width:       80,
		height:      24,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(cfg.Theme.Primary)),
		),
	}
	m.resetValues()
	return m
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 200
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// Init starts loading the cab directory.
func (m EntryFormModel) Init() tea.Cmd {
	return tea.Batch(fetchCabs(m.cabsAPI, OwnerForm, m.timeout), m.spinner.Tick)
}

// Update handles messages.
func (m EntryFormModel) Update(msg tea.Msg) (EntryFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case CabsLoadedMsg:
		if msg.Owner != OwnerForm {
			return m, nil
		}
		return m.handleCabsLoaded(msg)

	case EntryLoadedMsg:
		return m.handleEntryLoaded(msg), nil

	case EntrySavedMsg:
		return m.handleEntrySaved(msg)

	case spinner.TickMsg:
		if msg.ID != m.spinner.ID() {
			return m, nil
		}
		if !m.busy() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.Resize(msg.Width, msg.Height)
	}

	return m, nil
}

func (m EntryFormModel) handleKey(msg tea.KeyMsg) (EntryFormModel, tea.Cmd) {
	slot := m.currentSlot()

	switch msg.String() {
	case "ctrl+s":
		return m.submit()

	case "ctrl+r":
		m.status = ""
		cmd := m.keyChanged()
		return m, cmd

	case "tab", "down":
		m.moveFocus(1)
		return m, nil

	case "shift+tab", "up":
		m.moveFocus(-1)
		return m, nil

	case "enter":
		if slot.kind == slotSubmit {
			return m.submit()
		}
		m.moveFocus(1)
		return m, nil

	case "left", "right":
		delta := 1
		if msg.String() == "left" {
			delta = -1
		}
		switch {
		case slot.kind == slotCab:
			cmd := m.cycleCab(delta)
			return m, cmd
		case slot.kind == slotCategory:
			cmd := m.cycleCategory(delta)
			return m, cmd
		case slot.kind == slotField && slot.field.Kind == entry.KindChoice:
			m.cycleChoice(slot.field, delta)
			return m, nil
		}
	}

	return m.updateInput(slot, msg)
}

func (m EntryFormModel) updateInput(slot formSlot, msg tea.KeyMsg) (EntryFormModel, tea.Cmd) {
	var cmd tea.Cmd

	switch slot.kind {
	case slotDate:
		before := m.dateInput.Value()
		m.dateInput, cmd = m.dateInput.Update(msg)
		if m.dateInput.Value() != before {
			fetch := m.keyChanged()
			return m, tea.Batch(cmd, fetch)
		}

	case slotField:
		input, ok := m.inputs[slot.field.ID]
		if !ok {
			return m, nil
		}
		input, cmd = input.Update(msg)
		m.inputs[slot.field.ID] = input
		m.values[slot.field.ID] = input.Value()
	}

	return m, cmd
}

func (m EntryFormModel) handleCabsLoaded(msg CabsLoadedMsg) (EntryFormModel, tea.Cmd) {
	m.loadingCabs = false
	if msg.Err != nil {
		m.err = common.NewUserError(ErrFetchingCabs, msg.Err)
		return m, nil
	}

	m.cabs = msg.Cabs
	m.cabIndex = -1
	if len(m.cabs) > 0 {
		m.cabIndex = 0
	}
	if m.pendingCab != "" {
		if i := m.cabPosition(m.pendingCab); i >= 0 {
			m.cabIndex = i
		}
		m.pendingCab = ""
	}
	cmd := m.keyChanged()
	return m, cmd
}

func (m EntryFormModel) handleEntryLoaded(msg EntryLoadedMsg) EntryFormModel {
	if msg.Key != m.pendingKey {
		return m
	}
	m.loadingEntry = false

	if msg.Err != nil {
		m.err = common.NewUserError(ErrFetchingFormData, msg.Err)
		return m
	}

	m.loaded = true
	m.existing = msg.Entry
	m.resetValues()
	return m
}

func (m EntryFormModel) handleEntrySaved(msg EntrySavedMsg) (EntryFormModel, tea.Cmd) {
	m.submitting = false
	if msg.Err != nil {
		m.err = common.NewUserError(ErrSubmittingData, msg.Err)
		return m, nil
	}

	m.err = nil
	m.status = entry.SuccessMessage(msg.Submission)
	if msg.Key != m.Key() {
		return m, nil
	}
	m.pendingKey = msg.Key
	m.loadingEntry = true
	m.loaded = false
	spin := m.startSpinner()
	return m, tea.Batch(fetchEntry(m.store, msg.Key, m.timeout), spin)
}

// ApplyEditContext selects the date and cab handed over from the dashboard.
// The returned command reports consumption so the owner can clear it.
func (m EntryFormModel) ApplyEditContext(ec EditContext) (EntryFormModel, tea.Cmd) {
	consumed := func() tea.Msg { return EditContextConsumedMsg{Context: ec} }

	if ec.Date != "" {
		m.dateInput.SetValue(ec.Date)
	}
	m.status = ""

	if ec.CabNumber != "" {
		if m.loadingCabs {
			m.pendingCab = ec.CabNumber
			return m, consumed
		}
		if i := m.cabPosition(ec.CabNumber); i >= 0 {
			m.cabIndex = i
		}
	}

	fetch := m.keyChanged()
	return m, tea.Batch(fetch, consumed)
}

// keyChanged resets the form for the current selection and fetches the
// stored entry once the selection is complete.
func (m *EntryFormModel) keyChanged() tea.Cmd {
	m.existing = model.Entry{}
	m.loaded = false
	m.resetValues()
	m.err = nil

	key := m.Key()
	if !key.Complete() {
		m.pendingKey = model.EntryKey{}
		m.loadingEntry = false
		return nil
	}

	m.pendingKey = key
	m.loadingEntry = true
	return tea.Batch(fetchEntry(m.store, key, m.timeout), m.startSpinner())
}

func (m *EntryFormModel) resetValues() {
	m.values = entry.Defaults(m.categoryValue(), m.existing)
	m.rebuildInputs()
}

func (m *EntryFormModel) rebuildInputs() {
	m.inputs = make(map[entry.FieldID]textinput.Model)
	for _, f := range entry.FieldsFor(m.categoryValue(), m.existing.Exists(), m.values) {
		if f.Kind == entry.KindChoice {
			continue
		}
		ti := newInput(f.Placeholder)
		if f.IsNumeric() {
			ti.CharLimit = numericCharLimit
		}
		ti.SetValue(m.values.Get(f.ID))
		m.inputs[f.ID] = ti
	}
	m.syncFocus()
}

func (m *EntryFormModel) submit() (EntryFormModel, tea.Cmd) {
	if m.submitting || m.loadingEntry {
		return *m, nil
	}
	m.status = ""

	if m.Key().Complete() && !m.loaded {
		m.err = common.NewUserError(ErrSubmittingData, errEntryNotLoaded)
		return *m, nil
	}

	s, err := entry.Compose(entry.Draft{
		Key:      m.Key(),
		Values:   m.values.Clone(),
		User:     m.user,
		Existing: m.existing,
	})
	if err != nil {
		m.err = common.NewUserError(ErrSubmittingData, err)
		return *m, nil
	}

	m.err = nil
	m.submitting = true
	spin := m.startSpinner()
	return *m, tea.Batch(saveEntry(m.store, m.Key(), s, m.timeout), spin)
}

func (m *EntryFormModel) startSpinner() tea.Cmd {
	if m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

func (m *EntryFormModel) cycleCab(delta int) tea.Cmd {
	if len(m.cabs) == 0 {
		return nil
	}
	m.cabIndex = wrap(m.cabIndex+delta, len(m.cabs))
	m.status = ""
	return m.keyChanged()
}

func (m *EntryFormModel) cycleCategory(delta int) tea.Cmd {
	m.category = wrap(m.category+delta, len(model.Categories))
	m.status = ""
	return m.keyChanged()
}

func (m *EntryFormModel) cycleChoice(f entry.Field, delta int) {
	if len(f.Choices) == 0 {
		return
	}
	pos := 0
	current := m.values.Get(f.ID)
	for i, c := range f.Choices {
		if c == current {
			pos = i
			break
		}
	}
	m.values[f.ID] = f.Choices[wrap(pos+delta, len(f.Choices))]
	m.rebuildChoiceDependents()
}

// rebuildChoiceDependents refreshes inputs after a choice changed the field
// list, keeping what the user already typed.
func (m *EntryFormModel) rebuildChoiceDependents() {
	for _, f := range entry.FieldsFor(m.categoryValue(), m.existing.Exists(), m.values) {
		if f.Kind == entry.KindChoice {
			if m.values.Get(f.ID) == "" && len(f.Choices) > 0 {
				m.values[f.ID] = f.Choices[0]
			}
			continue
		}
		if _, ok := m.inputs[f.ID]; !ok {
			ti := newInput(f.Placeholder)
			ti.SetValue(m.values.Get(f.ID))
			m.inputs[f.ID] = ti
		}
	}
	m.syncFocus()
}

func (m *EntryFormModel) moveFocus(delta int) {
	m.focus = wrap(m.focus+delta, len(m.slots()))
	m.syncFocus()
}

// syncFocus clamps the focus index and focuses the matching text input.
func (m *EntryFormModel) syncFocus() {
	slots := m.slots()
	if m.focus >= len(slots) {
		m.focus = len(slots) - 1
	}
	current := slots[m.focus]

	if current.kind == slotDate {
		_ = m.dateInput.Focus()
	} else {
		m.dateInput.Blur()
	}
	for id, input := range m.inputs {
		if current.kind == slotField && current.field.ID == id {
			_ = input.Focus()
		} else {
			input.Blur()
		}
		m.inputs[id] = input
	}
}

func (m EntryFormModel) slots() []formSlot {
	slots := []formSlot{{kind: slotDate}, {kind: slotCab}, {kind: slotCategory}}
	for _, f := range m.fields() {
		slots = append(slots, formSlot{kind: slotField, field: f})
	}
	return append(slots, formSlot{kind: slotSubmit})
}

func (m EntryFormModel) currentSlot() formSlot {
	slots := m.slots()
	if m.focus < 0 || m.focus >= len(slots) {
		return slots[0]
	}
	return slots[m.focus]
}

func (m EntryFormModel) fields() []entry.Field {
	return entry.FieldsFor(m.categoryValue(), m.existing.Exists(), m.values)
}

func (m EntryFormModel) categoryValue() model.Category {
	return model.Categories[m.category]
}

func (m EntryFormModel) cabPosition(serviceNumber string) int {
	for i, c := range m.cabs {
		if c.ServiceNumber == serviceNumber {
			return i
		}
	}
	return -1
}

func (m EntryFormModel) busy() bool {
	return m.loadingCabs || m.loadingEntry || m.submitting
}

// Key returns the current (date, cab, category) selection.
func (m EntryFormModel) Key() model.EntryKey {
	key := model.EntryKey{
		Date:     strings.TrimSpace(m.dateInput.Value()),
		Category: m.categoryValue(),
	}
	if m.cabIndex >= 0 && m.cabIndex < len(m.cabs) {
		key.CabNumber = m.cabs[m.cabIndex].ServiceNumber
	}
	return key
}

// Existing returns the stored entry for the current key, if loaded.
func (m EntryFormModel) Existing() model.Entry {
	return m.existing
}

// Value returns the raw input of a field.
func (m EntryFormModel) Value(id entry.FieldID) string {
	return m.values.Get(id)
}

// Err returns the error banner, if any.
func (m EntryFormModel) Err() error {
	return m.err
}

// Status returns the success banner, if any.
func (m EntryFormModel) Status() string {
	return m.status
}

// Busy reports whether a request is in flight.
func (m EntryFormModel) Busy() bool {
	return m.busy()
}

// Resize updates the component dimensions.
func (m *EntryFormModel) Resize(width, height int) {
	m.width = width
	m.height = height
	inputWidth := max(width-28, 10)
	m.dateInput.Width = inputWidth
	for id, input := range m.inputs {
		input.Width = inputWidth
		m.inputs[id] = input
	}
}

// View renders the form.
func (m EntryFormModel) View() string {
	sections := []string{m.theme.Title.Render("Daily Entries")}

	if banner := m.renderBanner(); banner != "" {
		sections = append(sections, banner, "")
	}

	for i, slot := range m.slots() {
		sections = append(sections, m.renderSlot(slot, i == m.focus))
	}

	if m.existing.Exists() {
		sections = append(sections, "", m.renderStored())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m EntryFormModel) renderBanner() string {
	switch {
	case m.err != nil:
		banner := m.theme.StatusError.Render(m.err.Error())
		if !m.loaded && m.Key().Complete() && !errors.Is(m.err, errEntryNotLoaded) {
			banner += "\n" + m.theme.StatusPending.Render("Press ctrl+r to reload")
		}
		return banner
	case m.busy():
		label := "Loading..."
		if m.submitting {
			label = "Submitting..."
		}
		return m.spinner.View() + " " + m.theme.StatusPending.Render(label)
	case m.status != "":
		return m.theme.StatusSuccess.Render(m.status)
	}
	return ""
}

func (m EntryFormModel) renderSlot(slot formSlot, focused bool) string {
	labelStyle := m.theme.FieldLabel
	if focused {
		labelStyle = m.theme.FocusedField
	}

	switch slot.kind {
	case slotDate:
		return labelStyle.Render("Date") + m.dateInput.View()

	case slotCab:
		label := "No cabs"
		if m.loadingCabs {
			label = "Loading cabs..."
		}
		if m.cabIndex >= 0 && m.cabIndex < len(m.cabs) {
			label = m.cabs[m.cabIndex].Label()
		}
		return labelStyle.Render("Cab") + m.renderChoice(label, focused)

	case slotCategory:
		c := m.categoryValue()
		label := themes.GetCategoryIcon(string(c)) + " " + c.Label()
		return labelStyle.Render("Category") + m.renderChoice(label, focused)

	case slotField:
		if slot.field.Kind == entry.KindChoice {
			return labelStyle.Render(slot.field.Label) +
				m.renderChoice(model.Capitalize(m.values.Get(slot.field.ID)), focused)
		}
		input := m.inputs[slot.field.ID]
		return labelStyle.Render(slot.field.Label) + input.View()

	default:
		label := "[ Submit ]"
		if m.existing.Exists() {
			label = "[ Update ]"
		}
		if focused {
			return m.theme.Selected.Render(label)
		}
		return m.theme.Bold.Render(label)
	}
}

func (m EntryFormModel) renderChoice(label string, focused bool) string {
	if focused {
		return m.theme.Highlighted.Render("◀ " + label + " ▶")
	}
	return m.theme.Normal.Render("  " + label)
}

func (m EntryFormModel) renderStored() string {
	e := m.existing
	var parts []string

	switch m.categoryValue() {
	case model.CategoryTrips:
		parts = append(parts,
			fmt.Sprintf("Stored trips: %s", viewmodel.FormatCount(e.TotalTrips)),
			fmt.Sprintf("Stored distance: %s", viewmodel.FormatDistance(e.DistanceKM)),
		)
	default:
		parts = append(parts, fmt.Sprintf("Stored amount: %s", viewmodel.FormatCurrency(e.Amount)))
	}

	return m.theme.Subtitle.Render(strings.Join(parts, "  ·  "))
}

func wrap(i, n int) int {
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}
