package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/services"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/desertthunder/mixtape/internal/store"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LibraryView ViewState = iota
	PlaylistView
	SearchView
)

// volumeStep is applied per +/- keypress.
const volumeStep = 0.1

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	view   ViewState
	search services.SearchService
	store  *store.Store

	state       store.State
	stateCh     chan store.State
	unsubscribe func()

	width  int
	height int

	playlistList list.Model
	songList     list.Model
	openPlaylist *models.Playlist

	searchInput textinput.Model
	searchList  list.Model
	searchGen   int
	searching   bool

	err  error
	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model wired to the state container and search gateway.
//
// The model subscribes to the store; every mutation surfaces as a
// [stateChangedMsg] so the UI always renders the latest snapshot.
func NewModel(ctx context.Context, search services.SearchService, st *store.Store) *Model {
	input := textinput.New()
	input.Placeholder = "Search for songs..."
	input.CharLimit = 200

	m := &Model{
		ctx:         ctx,
		view:        LibraryView,
		search:      search,
		store:       st,
		state:       st.Snapshot(),
		stateCh:     make(chan store.State, 16),
		searchInput: input,
		help:        help.New(),
		keys:        newKeyMap(),
	}

	m.unsubscribe = st.Subscribe(func(s store.State) {
		select {
		case m.stateCh <- s:
		default:
			// UI is behind; it will catch up on the next snapshot
		}
	})

	m.playlistList = list.New(playlistItems(m.libraryPlaylists()), list.NewDefaultDelegate(), 0, 0)
	m.playlistList.Title = "Library"
	m.searchList = list.New(nil, list.NewDefaultDelegate(), 0, 0)
	m.searchList.Title = "Search Results"

	return m
}

// libraryPlaylists renders the liked songs as a pseudo-playlist ahead of the
// regular library.
func (m *Model) libraryPlaylists() []models.Playlist {
	playlists := make([]models.Playlist, 0, len(m.state.Playlists)+1)
	playlists = append(playlists, models.LikedSongsPlaylist(m.state.LikedSongs))
	playlists = append(playlists, m.state.Playlists...)
	return playlists
}

// Init starts the store subscription pump.
func (m *Model) Init() tea.Cmd {
	return m.listenForState()
}

// listenForState blocks on the subscription channel and converts snapshots to messages.
func (m *Model) listenForState() tea.Cmd {
	return func() tea.Msg {
		return stateChangedMsg(<-m.stateCh)
	}
}

// Close releases the store subscription.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		m.songList.SetSize(msg.Width-4, msg.Height-8)
		m.searchList.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case stateChangedMsg:
		m.state = store.State(msg)
		m.playlistList.SetItems(playlistItems(m.libraryPlaylists()))
		if m.openPlaylist != nil {
			m.refreshOpenPlaylist()
		}
		return m, m.listenForState()

	case searchResultMsg:
		// A response from a superseded request; the user has typed a newer
		// query and this result must not overwrite it.
		if msg.generation != m.searchGen {
			return m, nil
		}
		m.searching = false
		if msg.err != nil {
			m.err = msg.err
			m.searchList.SetItems(nil)
			return m, nil
		}
		m.err = nil
		m.searchList.SetItems(songItems(msg.songs))
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case LibraryView:
		body = m.renderLibrary()
	case PlaylistView:
		body = m.renderPlaylist()
	case SearchView:
		body = m.renderSearch()
	}

	return fmt.Sprintf("%s\n%s", body, m.renderNowPlaying())
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The search input swallows every key while focused.
	if m.view == SearchView && m.searchInput.Focused() {
		return m.handleSearchInputKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggle):
		m.store.SetIsPlaying(!m.state.IsPlaying)
		return m, nil
	case key.Matches(msg, m.keys.volumeUp):
		m.store.SetVolume(m.state.Volume + volumeStep)
		return m, nil
	case key.Matches(msg, m.keys.volumeDown):
		m.store.SetVolume(m.state.Volume - volumeStep)
		return m, nil
	case key.Matches(msg, m.keys.search):
		m.view = SearchView
		m.searchInput.Focus()
		return m, textinput.Blink
	}

	switch m.view {
	case LibraryView:
		return m.handleLibraryKeys(msg)
	case PlaylistView:
		return m.handlePlaylistKeys(msg)
	case SearchView:
		return m.handleSearchListKeys(msg)
	}
	return m, nil
}

func (m *Model) handleLibraryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.enter) {
		if item, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			pl := item.playlist
			m.openPlaylist = &pl
			m.store.SetCurrentPlaylist(&pl)
			m.songList = list.New(songItems(pl.Songs), list.NewDefaultDelegate(), m.width-4, m.height-8)
			m.songList.Title = pl.Name
			m.view = PlaylistView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handlePlaylistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.back) {
		m.view = LibraryView
		m.openPlaylist = nil
		m.store.SetCurrentPlaylist(nil)
		return m, nil
	}

	if cmd, handled := m.handleSongKeys(msg, m.songList.SelectedItem()); handled {
		return m, cmd
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchInput.Blur()
		m.view = LibraryView
		return m, nil
	case "enter":
		query := m.searchInput.Value()
		if query == "" {
			return m, nil
		}
		m.searchInput.Blur()
		return m, m.startSearch(query)
	case "ctrl+c":
		m.Close()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.back) {
		m.view = LibraryView
		return m, nil
	}

	if cmd, handled := m.handleSongKeys(msg, m.searchList.SelectedItem()); handled {
		return m, cmd
	}

	var cmd tea.Cmd
	m.searchList, cmd = m.searchList.Update(msg)
	return m, cmd
}

// handleSongKeys applies the player bindings to the selected song. Reports
// whether the key was consumed.
func (m *Model) handleSongKeys(msg tea.KeyMsg, selected list.Item) (tea.Cmd, bool) {
	item, ok := selected.(songItem)
	if !ok {
		return nil, false
	}
	song := item.song

	switch {
	case key.Matches(msg, m.keys.enter):
		// Selecting the song that is already current toggles playback
		// instead of restarting it.
		if m.state.CurrentSong != nil && m.state.CurrentSong.ID == song.ID {
			m.store.SetIsPlaying(!m.state.IsPlaying)
			return nil, true
		}
		m.store.SetCurrentSong(&song)
		m.store.SetIsPlaying(true)
		return nil, true
	case key.Matches(msg, m.keys.queue):
		m.store.AddToQueue(song)
		return nil, true
	case key.Matches(msg, m.keys.like):
		if m.store.IsLiked(song.ID) {
			m.store.RemoveFromLikedSongs(song.ID)
		} else {
			m.store.AddToLikedSongs(song)
		}
		return nil, true
	case key.Matches(msg, m.keys.open):
		if song.URL != "" {
			if err := shared.OpenBrowser(song.URL); err != nil {
				m.err = err
			}
		}
		return nil, true
	}
	return nil, false
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case LibraryView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case PlaylistView:
		m.songList, cmd = m.songList.Update(msg)
	case SearchView:
		if m.searchInput.Focused() {
			m.searchInput, cmd = m.searchInput.Update(msg)
		} else {
			m.searchList, cmd = m.searchList.Update(msg)
		}
	}
	return m, cmd
}

// startSearch issues a generation-tagged search request.
func (m *Model) startSearch(query string) tea.Cmd {
	m.searchGen++
	m.searching = true
	generation := m.searchGen

	return func() tea.Msg {
		songs, err := m.search.Search(m.ctx, query)
		return searchResultMsg{generation: generation, songs: songs, err: err}
	}
}

// refreshOpenPlaylist re-resolves the open playlist against the latest snapshot.
func (m *Model) refreshOpenPlaylist() {
	if m.openPlaylist.ID == models.LikedSongsID {
		pl := models.LikedSongsPlaylist(m.state.LikedSongs)
		m.openPlaylist = &pl
		m.songList.SetItems(songItems(pl.Songs))
		return
	}

	for _, pl := range m.state.Playlists {
		if pl.ID == m.openPlaylist.ID {
			pl := pl
			m.openPlaylist = &pl
			m.songList.SetItems(songItems(pl.Songs))
			return
		}
	}

	// Playlist was removed underneath us
	m.openPlaylist = nil
	m.view = LibraryView
}

func (m *Model) renderLibrary() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.search, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderPlaylist() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.queue, m.keys.like, m.keys.open, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.songList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderSearch() string {
	header := styles.title.Render("Search")
	input := m.searchInput.View()

	var status string
	if m.searching {
		status = styles.help.Render("Searching...")
	} else if m.err != nil {
		status = styles.err.Render(fmt.Sprintf("Search failed: %v", m.err))
	}

	var results string
	if !m.searchInput.Focused() {
		results = m.searchList.View()
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.queue, m.keys.like, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n%s\n%s\n\n%s", header, input, status, results, m.help.ShortHelpView(helpKeys))
}

// renderNowPlaying renders the persistent transport bar.
func (m *Model) renderNowPlaying() string {
	icon := "▶"
	if !m.state.IsPlaying {
		icon = "▌▌"
	}

	track := "Nothing playing"
	liked := ""
	if m.state.CurrentSong != nil {
		track = fmt.Sprintf("%s - %s", m.state.CurrentSong.Artist, m.state.CurrentSong.Title)
		if m.store.IsLiked(m.state.CurrentSong.ID) {
			liked = " ♥"
		}
	}

	bar := fmt.Sprintf("%s  %s%s  vol %.0f%%  queue %d", icon, track, liked, m.state.Volume*100, len(m.state.Queue))
	return styles.bar.Render(bar)
}
