package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/duskfall/gamedex/internal/auth"
	"github.com/duskfall/gamedex/internal/models"
	"github.com/duskfall/gamedex/internal/services"
	"github.com/duskfall/gamedex/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MenuView ViewState = iota
	SignInView
	LibraryView
	DetailView
	DiscoverView
	SyncView
)

// viewName returns the stable name used as the guard's return path.
func viewName(v ViewState) string {
	switch v {
	case MenuView:
		return "menu"
	case SignInView:
		return "signin"
	case LibraryView:
		return "library"
	case DetailView:
		return "detail"
	case DiscoverView:
		return "discover"
	case SyncView:
		return "sync"
	default:
		return ""
	}
}

// keepAliveInterval matches the tracker backend's idle spin-down window.
const keepAliveInterval = 5 * time.Minute

// discoverCount is how many AI picks the discover view requests.
const discoverCount = 12

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	provider  auth.Provider
	session   *auth.Session
	games     services.Service
	discovery *services.DiscoveryService
	engine    tasks.LibraryEngine
	guard     *Guard

	snap        auth.Snapshot
	sessionChan chan auth.Snapshot
	unwatch     func()

	width  int
	height int

	menuList     list.Model
	gameList     list.Model
	discoverList list.Model
	selectedGame *models.Game

	// pendingCmd holds a protected fetch deferred until the guard grants
	// access, either across the sign-in redirect or while the session is
	// still resolving.
	pendingCmd tea.Cmd

	emailInput    textinput.Model
	passwordInput textinput.Model
	focusPassword bool
	signingIn     bool
	signInErr     error

	progressChan chan tasks.ProgressUpdate
	syncDone     chan syncCompleteMsg
	progress     tasks.ProgressUpdate
	syncResult   *tasks.SyncResult
	syncErr      error
	syncing      bool

	err  error
	help help.Model
	keys keyMap
}

type sessionMsg auth.Snapshot

type signInResultMsg struct {
	err error
}

type gamesFetchedMsg struct {
	title string
	games []models.Game
	err   error
}

type gameFetchedMsg struct {
	game *models.Game
	err  error
}

type discoverFetchedMsg struct {
	games []models.AIGame
	err   error
}

type progressUpdateMsg tasks.ProgressUpdate

type syncCompleteMsg struct {
	result *tasks.SyncResult
	err    error
}

type keepAliveMsg time.Time

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, provider auth.Provider, session *auth.Session, games services.Service, discovery *services.DiscoveryService, engine tasks.LibraryEngine) *Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	year := time.Now().Year()
	items := []list.Item{
		menuItem{title: "This Year", desc: fmt.Sprintf("Games completed in %d", year), protected: true},
		menuItem{title: "Backlog", desc: "Games to be completed", protected: true},
		menuItem{title: "Favourites", desc: "Favourite games", protected: true},
		menuItem{title: "100% Completed", desc: "Games completed to 100%", protected: true},
		menuItem{title: "Discover", desc: fmt.Sprintf("AI picks for %d", year)},
		menuItem{title: "Sync", desc: "Refresh the local library cache", protected: true},
	}
	menu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "Game Library"
	menu.SetShowHelp(false)

	m := &Model{
		ctx:           ctx,
		view:          MenuView,
		provider:      provider,
		session:       session,
		games:         games,
		discovery:     discovery,
		engine:        engine,
		guard:         NewGuard(),
		sessionChan:   make(chan auth.Snapshot, 8),
		menuList:      menu,
		emailInput:    email,
		passwordInput: password,
		help:          help.New(),
		keys:          newKeyMap(),
	}

	if session != nil {
		m.unwatch = session.Watch(func(snap auth.Snapshot) {
			select {
			case m.sessionChan <- snap:
			default:
			}
		})
	}

	return m
}

// Init starts the session watch and the keep-alive ticker.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForSession(), m.scheduleKeepAlive())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.menuList.SetSize(msg.Width-4, msg.Height-8)
		if m.gameList.Width() != 0 {
			m.gameList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.discoverList.Width() != 0 {
			m.discoverList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case MenuView:
			return m.handleMenuKeys(msg)
		case SignInView:
			return m.handleSignInKeys(msg)
		case LibraryView:
			return m.handleLibraryKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case DiscoverView:
			return m.handleDiscoverKeys(msg)
		case SyncView:
			return m.handleSyncKeys(msg)
		}

	case sessionMsg:
		return m.handleSession(auth.Snapshot(msg))

	case signInResultMsg:
		m.signingIn = false
		m.signInErr = msg.err
		if msg.err == nil {
			m.emailInput.SetValue("")
			m.passwordInput.SetValue("")
		}
		return m, nil

	case gamesFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = MenuView
			return m, nil
		}
		items := make([]list.Item, len(msg.games))
		for i, game := range msg.games {
			items[i] = gameItem{game: game}
		}
		m.gameList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.gameList.Title = msg.title
		m.gameList.SetShowHelp(false)
		m.gameList.SetSize(m.width-4, m.height-8)
		return m, nil

	case gameFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.selectedGame = msg.game
		m.view = DetailView
		return m, nil

	case discoverFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = MenuView
			return m, nil
		}
		items := make([]list.Item, len(msg.games))
		for i, game := range msg.games {
			items[i] = discoverItem{game: game}
		}
		m.discoverList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.discoverList.Title = "Discover"
		m.discoverList.SetShowHelp(false)
		m.discoverList.SetSize(m.width-4, m.height-8)
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case syncCompleteMsg:
		m.syncing = false
		m.syncResult = msg.result
		m.syncErr = msg.err
		m.progressChan = nil
		m.syncDone = nil
		return m, nil

	case keepAliveMsg:
		return m, tea.Batch(m.pingHealth(), m.scheduleKeepAlive())
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case MenuView:
		return m.renderMenu()
	case SignInView:
		return m.renderSignIn()
	case LibraryView:
		return m.renderLibrary()
	case DetailView:
		return m.renderDetail()
	case DiscoverView:
		return m.renderDiscover()
	case SyncView:
		return m.renderSync()
	default:
		return ""
	}
}

// Close tears down the session watch.
func (m *Model) Close() {
	if m.unwatch != nil {
		m.unwatch()
		m.unwatch = nil
	}
}

// handleSession commits a session snapshot and re-runs the guard for the
// current view. Protected views redirect to sign-in on a fresh denial; a
// grant while on the sign-in view restores the saved return path.
func (m *Model) handleSession(snap auth.Snapshot) (tea.Model, tea.Cmd) {
	m.snap = snap

	if m.view != SignInView && !m.protectedView() {
		return m, m.waitForSession()
	}

	decision := m.guard.Evaluate(snap, viewName(m.view))
	switch decision.State {
	case GateGranted:
		var cmds []tea.Cmd
		if m.view == SignInView {
			m.view = m.viewFor(decision.ReturnTo)
			if m.pendingCmd != nil {
				cmds = append(cmds, m.pendingCmd)
				m.pendingCmd = nil
			}
		} else if m.pendingCmd != nil {
			cmds = append(cmds, m.pendingCmd)
			m.pendingCmd = nil
		}
		cmds = append(cmds, m.waitForSession())
		return m, tea.Batch(cmds...)

	case GateDenied:
		if decision.Redirect {
			m.enterSignIn()
		}
	}

	return m, m.waitForSession()
}

func (m *Model) protectedView() bool {
	switch m.view {
	case LibraryView, DetailView, SyncView:
		return true
	}
	return false
}

func (m *Model) viewFor(name string) ViewState {
	switch name {
	case "library":
		return LibraryView
	case "detail":
		return DetailView
	case "sync":
		return SyncView
	case "discover":
		return DiscoverView
	}
	return MenuView
}

func (m *Model) enterSignIn() {
	m.view = SignInView
	m.signInErr = nil
	m.focusPassword = false
	m.emailInput.Focus()
	m.passwordInput.Blur()
}

// openProtected switches to a protected view with its fetch deferred until
// the guard grants access.
func (m *Model) openProtected(target ViewState, fetch tea.Cmd) (tea.Model, tea.Cmd) {
	m.view = target
	m.pendingCmd = fetch
	m.err = nil

	decision := m.guard.Evaluate(m.snap, viewName(target))
	switch decision.State {
	case GateGranted:
		cmd := m.pendingCmd
		m.pendingCmd = nil
		return m, cmd
	case GateDenied:
		if decision.Redirect {
			m.enterSignIn()
		}
		return m, nil
	}

	// Pending: the view renders a placeholder until the session resolves.
	return m, nil
}

func (m *Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.menuList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "ctrl+o":
		return m, m.signOut()
	case "enter":
		selected := m.menuList.SelectedItem()
		if selected == nil {
			return m, nil
		}
		item, ok := selected.(menuItem)
		if !ok {
			return m, nil
		}

		switch item.title {
		case "This Year":
			year := time.Now().Year()
			return m.openProtected(LibraryView, m.fetchGames(fmt.Sprintf("Completed in %d", year), func(ctx context.Context) ([]models.Game, error) {
				return m.games.GamesByYear(ctx, year)
			}))
		case "Backlog":
			return m.openProtected(LibraryView, m.fetchGames("Backlog", m.games.GamesToBeCompleted))
		case "Favourites":
			return m.openProtected(LibraryView, m.fetchGames("Favourites", m.games.FavouriteGames))
		case "100% Completed":
			return m.openProtected(LibraryView, m.fetchGames("100% Completed", m.games.HundredPercentGames))
		case "Discover":
			m.view = DiscoverView
			m.err = nil
			return m, m.fetchDiscover()
		case "Sync":
			return m.openProtected(SyncView, m.startSync())
		}
	}

	var cmd tea.Cmd
	m.menuList, cmd = m.menuList.Update(msg)
	return m, cmd
}

func (m *Model) handleSignInKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = MenuView
		m.pendingCmd = nil
		return m, nil
	case "tab", "shift+tab":
		m.focusPassword = !m.focusPassword
		if m.focusPassword {
			m.emailInput.Blur()
			m.passwordInput.Focus()
		} else {
			m.passwordInput.Blur()
			m.emailInput.Focus()
		}
		return m, nil
	case "enter":
		if !m.focusPassword {
			m.focusPassword = true
			m.emailInput.Blur()
			m.passwordInput.Focus()
			return m, nil
		}
		if m.signingIn {
			return m, nil
		}
		m.signingIn = true
		m.signInErr = nil
		return m, m.signIn(m.emailInput.Value(), m.passwordInput.Value())
	}

	var cmd tea.Cmd
	if m.focusPassword {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	} else {
		m.emailInput, cmd = m.emailInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleLibraryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.gameList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = MenuView
		return m, nil
	case "enter":
		selected := m.gameList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(gameItem); ok {
				return m, m.fetchGame(item.game.ID)
			}
		}
	}

	var cmd tea.Cmd
	m.gameList, cmd = m.gameList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = LibraryView
		m.selectedGame = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) handleDiscoverKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.discoverList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = MenuView
		return m, nil
	}

	var cmd tea.Cmd
	m.discoverList, cmd = m.discoverList.Update(msg)
	return m, cmd
}

func (m *Model) handleSyncKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if !m.syncing {
			m.view = MenuView
			m.syncResult = nil
			m.syncErr = nil
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case MenuView:
		m.menuList, cmd = m.menuList.Update(msg)
	case LibraryView:
		if m.gameList.Items() != nil {
			m.gameList, cmd = m.gameList.Update(msg)
		}
	case DiscoverView:
		if m.discoverList.Items() != nil {
			m.discoverList, cmd = m.discoverList.Update(msg)
		}
	}
	return m, cmd
}

func (m *Model) waitForSession() tea.Cmd {
	return func() tea.Msg {
		return sessionMsg(<-m.sessionChan)
	}
}

func (m *Model) scheduleKeepAlive() tea.Cmd {
	return tea.Tick(keepAliveInterval, func(t time.Time) tea.Msg {
		return keepAliveMsg(t)
	})
}

// pingHealth keeps the backend warm between interactions. Failures are
// ignored; the next real request surfaces any outage.
func (m *Model) pingHealth() tea.Cmd {
	return func() tea.Msg {
		if m.games != nil {
			m.games.Health(m.ctx)
		}
		return nil
	}
}

func (m *Model) signIn(email, password string) tea.Cmd {
	return func() tea.Msg {
		if email == "" || password == "" {
			return signInResultMsg{err: fmt.Errorf("email and password are required")}
		}
		_, err := m.provider.SignIn(m.ctx, email, password)
		return signInResultMsg{err: err}
	}
}

func (m *Model) signOut() tea.Cmd {
	return func() tea.Msg {
		m.provider.SignOut(m.ctx)
		return nil
	}
}

func (m *Model) fetchGames(title string, fetch func(context.Context) ([]models.Game, error)) tea.Cmd {
	return func() tea.Msg {
		games, err := fetch(m.ctx)
		return gamesFetchedMsg{title: title, games: games, err: err}
	}
}

func (m *Model) fetchGame(id string) tea.Cmd {
	return func() tea.Msg {
		game, err := m.games.GetGame(m.ctx, id)
		return gameFetchedMsg{game: game, err: err}
	}
}

func (m *Model) fetchDiscover() tea.Cmd {
	return func() tea.Msg {
		games, err := m.discovery.Discover(m.ctx, time.Now().Year(), discoverCount)
		return discoverFetchedMsg{games: games, err: err}
	}
}

func (m *Model) startSync() tea.Cmd {
	year := time.Now().Year()
	years := []int{year, year - 1, year - 2}

	m.syncing = true
	m.syncResult = nil
	m.syncErr = nil
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.syncDone = make(chan syncCompleteMsg, 1)

	progressChan := m.progressChan
	done := m.syncDone
	return tea.Batch(
		func() tea.Msg {
			go func() {
				result, err := m.engine.Sync(m.ctx, years, progressChan)
				done <- syncCompleteMsg{result: result, err: err}
				close(progressChan)
			}()
			return nil
		},
		m.waitForProgress(),
	)
}

func (m *Model) waitForProgress() tea.Cmd {
	progressChan := m.progressChan
	done := m.syncDone
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		update, ok := <-progressChan
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

// sessionLine describes the signed-in state for the menu footer.
func (m *Model) sessionLine() string {
	if !m.snap.Resolved {
		return styles.warn.Render("resolving session...")
	}
	if m.snap.SignedIn() {
		return styles.ok.Render(fmt.Sprintf("signed in as %s", m.snap.Identity.Email()))
	}
	return styles.help.Render("browsing anonymously")
}

func (m *Model) renderMenu() string {
	var errLine string
	if m.err != nil {
		errLine = styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.signOut, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s%s\n%s", m.menuList.View(), errLine, m.sessionLine(), helpView)
}

func (m *Model) renderSignIn() string {
	title := styles.title.Render("Sign In")

	var errLine string
	if m.signInErr != nil {
		errLine = "\n" + styles.err.Render(fmt.Sprintf("Sign in failed: %v", m.signInErr))
	}

	status := ""
	if m.signingIn {
		status = "\n" + styles.warn.Render("Signing in...")
	}

	helpKeys := []key.Binding{m.keys.tab, m.keys.enter, m.keys.back}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s%s%s\n\n%s",
		title, m.emailInput.View(), m.passwordInput.View(), errLine, status, helpView)
}

// renderPlaceholder covers protected views until the session resolves.
func (m *Model) renderPlaceholder() string {
	return styles.warn.Render("Checking session...")
}

func (m *Model) renderLibrary() string {
	if m.guard.State() == GatePending {
		return m.renderPlaceholder()
	}
	if m.gameList.Items() == nil {
		return styles.warn.Render("Loading...")
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.gameList.View(), helpView)
}

func (m *Model) renderDetail() string {
	if m.selectedGame == nil {
		return styles.warn.Render("Loading...")
	}
	game := m.selectedGame

	title := styles.title.Render(fmt.Sprintf("%s (%d)", game.Name, game.Year))

	status := "backlog"
	if game.IsCompleted {
		status = fmt.Sprintf("completed %d", game.CompletedYear)
	}

	var flags string
	if game.IsHundredPercent {
		flags += "  " + styles.ok.Render("100%")
	}
	if game.IsFavourite {
		flags += "  " + styles.ok.Render("★ favourite")
	}

	body := fmt.Sprintf("Status: %s%s\n", status, flags)
	if game.SpecialDescription != "" {
		body += fmt.Sprintf("Description: %s\n", game.SpecialDescription)
	}
	if game.Note != "" {
		body += fmt.Sprintf("Note: %s\n", game.Note)
	}
	if len(game.Gallery) > 0 {
		body += fmt.Sprintf("Gallery: %d images\n", len(game.Gallery))
	}
	if len(game.Videos) > 0 {
		body += fmt.Sprintf("Videos: %d\n", len(game.Videos))
	}

	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, body, helpView)
}

func (m *Model) renderDiscover() string {
	if m.discoverList.Items() == nil {
		return styles.warn.Render("Loading...")
	}

	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.discoverList.View(), helpView)
}

func (m *Model) renderSync() string {
	if m.guard.State() == GatePending {
		return m.renderPlaceholder()
	}

	title := styles.title.Render("Library Sync")

	if m.syncErr != nil {
		return fmt.Sprintf("%s\n%s\n\n%s", title,
			styles.err.Render(fmt.Sprintf("Sync failed: %v", m.syncErr)),
			m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit}))
	}

	if m.syncResult != nil {
		summary := fmt.Sprintf("%s\nGames: %d\nCached: %d",
			styles.ok.Render("✓ Sync complete"),
			m.syncResult.GamesTotal, m.syncResult.GamesSynced)
		if len(m.syncResult.Failures) > 0 {
			summary += "\n\n" + styles.warn.Render(fmt.Sprintf("%d endpoint fetches failed:", len(m.syncResult.Failures)))
			for _, failure := range m.syncResult.Failures {
				summary += fmt.Sprintf("\n  • %s", failure.Endpoint)
			}
		}
		return fmt.Sprintf("%s\n%s\n\n%s", title, summary,
			m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit}))
	}

	var phase string
	switch m.progress.Phase {
	case tasks.FetchCount:
		phase = "Counting games..."
	case tasks.FetchBacklog:
		phase = "Fetching backlog..."
	case tasks.FetchYear:
		phase = fmt.Sprintf("Fetching completion years (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.FetchFavourites:
		phase = "Fetching favourites..."
	case tasks.FetchHundred:
		phase = "Fetching 100% completions..."
	case tasks.WriteCache:
		phase = "Writing cache..."
	default:
		phase = "Starting..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}
