package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/devpulse/pkg/config"
	pkgerrors "github.com/matzehuels/devpulse/pkg/errors"
	"github.com/matzehuels/devpulse/pkg/integrations/github"
	"github.com/matzehuels/devpulse/pkg/popularity"
)

// dashboardCommand creates the interactive dashboard command.
func (c *CLI) dashboardCommand() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Browse trending repositories, a developer and language ranking",
		Long: `Open an interactive dashboard with three tabs: Trending, Developer and
Languages.

Keys: tab/→ next tab, shift+tab/← previous tab, l cycle trending language,
r reload, q quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if user != "" {
				if err := pkgerrors.ValidateUsername(user); err != nil {
					return err
				}
			}
			ctx := cmd.Context()
			client, closeClient, err := c.newGitHubClient(ctx)
			if err != nil {
				return err
			}
			defer closeClient()

			m := newDashboardModel(ctx, client, popularity.NewAggregator(log.New(io.Discard)), c.config(), user)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "developer to show on the Developer tab")
	return cmd
}

// =============================================================================
// Model
// =============================================================================

// dashboardSource is the subset of the GitHub client the dashboard reads from.
type dashboardSource interface {
	popularity.Counter
	SearchTrending(ctx context.Context, q github.TrendingQuery) ([]github.Repository, error)
	FetchUser(ctx context.Context, login string) (*github.Developer, error)
}

type dashboardTab int

const (
	tabTrending dashboardTab = iota
	tabDeveloper
	tabLanguages
	tabCount
)

func (t dashboardTab) String() string {
	return [...]string{"Trending", "Developer", "Languages"}[t]
}

type trendingMsg struct {
	language string
	repos    []github.Repository
	err      error
}

type developerMsg struct {
	dev *github.Developer
	err error
}

type languagesMsg struct {
	seq     int
	results []popularity.LanguagePopularity
	err     error
}

// dashboardModel is the bubbletea model behind `devpulse dashboard`.
type dashboardModel struct {
	ctx     context.Context
	src     dashboardSource
	agg     *popularity.Aggregator
	popCfg  popularity.Config
	palette []string

	trending      github.TrendingQuery
	trendingLangs []string
	langIdx       int
	user          string

	tab     dashboardTab
	loading [tabCount]bool
	loaded  [tabCount]bool

	repos    []github.Repository
	reposErr error
	dev      *github.Developer
	devErr   error
	langs    []popularity.LanguagePopularity
	langsErr error
	langsSeq int // run whose languagesMsg is current

	width int
}

func newDashboardModel(ctx context.Context, src dashboardSource, agg *popularity.Aggregator, cfg *config.Config, user string) dashboardModel {
	langs := cfg.Trending.Languages
	if len(langs) == 0 {
		langs = []string{"all"}
	}
	return dashboardModel{
		ctx:     ctx,
		src:     src,
		agg:     agg,
		popCfg:  cfg.PopularityConfig(),
		palette: cfg.Popularity.Palette,
		trending: github.TrendingQuery{
			Language: langs[0],
			MinStars: cfg.Trending.MinStars,
			PerPage:  cfg.Trending.PerPage,
		},
		trendingLangs: langs,
		user:          user,
		width:         100,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.fetchTrending()}
	if m.user != "" {
		cmds = append(cmds, m.fetchDeveloper())
	}
	return tea.Batch(cmds...)
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case trendingMsg:
		if msg.language != m.trending.Language {
			return m, nil // stale response for a previous filter
		}
		m.loading[tabTrending], m.loaded[tabTrending] = false, true
		m.repos, m.reposErr = msg.repos, msg.err
	case developerMsg:
		m.loading[tabDeveloper], m.loaded[tabDeveloper] = false, true
		m.dev, m.devErr = msg.dev, msg.err
	case languagesMsg:
		if msg.seq != m.langsSeq {
			return m, nil // superseded by a reload
		}
		m.loading[tabLanguages], m.loaded[tabLanguages] = false, true
		m.langs, m.langsErr = msg.results, msg.err
	}
	return m, nil
}

func (m dashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "right":
		m.tab = (m.tab + 1) % tabCount
		cmd := m.ensureLoaded()
		return m, cmd
	case "shift+tab", "left":
		m.tab = (m.tab + tabCount - 1) % tabCount
		cmd := m.ensureLoaded()
		return m, cmd
	case "l":
		if m.tab != tabTrending {
			return m, nil
		}
		m.langIdx = (m.langIdx + 1) % len(m.trendingLangs)
		m.trending.Language = m.trendingLangs[m.langIdx]
		cmd := m.fetchTrending()
		return m, cmd
	case "r":
		cmd := m.reload()
		return m, cmd
	}
	return m, nil
}

// ensureLoaded starts the first fetch for the current tab. The language
// ranking costs one search request per language, so it is only run once
// the tab is opened.
func (m *dashboardModel) ensureLoaded() tea.Cmd {
	if m.loaded[m.tab] || m.loading[m.tab] {
		return nil
	}
	return m.reload()
}

func (m *dashboardModel) reload() tea.Cmd {
	switch m.tab {
	case tabTrending:
		m.loading[tabTrending] = true
		return m.fetchTrending()
	case tabDeveloper:
		if m.user == "" {
			return nil
		}
		m.loading[tabDeveloper] = true
		return m.fetchDeveloper()
	case tabLanguages:
		m.loading[tabLanguages] = true
		m.langsSeq++
		return m.fetchLanguages()
	}
	return nil
}

func (m dashboardModel) fetchTrending() tea.Cmd {
	src, ctx, q := m.src, m.ctx, m.trending
	return func() tea.Msg {
		repos, err := src.SearchTrending(ctx, q)
		return trendingMsg{language: q.Language, repos: repos, err: err}
	}
}

func (m dashboardModel) fetchDeveloper() tea.Cmd {
	src, ctx, user := m.src, m.ctx, m.user
	return func() tea.Msg {
		dev, err := src.FetchUser(ctx, user)
		return developerMsg{dev: dev, err: err}
	}
}

func (m dashboardModel) fetchLanguages() tea.Cmd {
	src, ctx, agg, cfg, seq := m.src, m.ctx, m.agg, m.popCfg, m.langsSeq
	return func() tea.Msg {
		results, err := agg.Aggregate(ctx, src, cfg)
		return languagesMsg{seq: seq, results: results, err: err}
	}
}

// =============================================================================
// View
// =============================================================================

var (
	tabActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 2).Underline(true)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(colorGray).Padding(0, 2)
	dashHelpStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

func (m dashboardModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("DevPulse"))
	b.WriteString("\n\n")

	tabs := make([]string, tabCount)
	for t := range tabCount {
		style := tabInactiveStyle
		if t == m.tab {
			style = tabActiveStyle
		}
		tabs[t] = style.Render(t.String())
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	switch m.tab {
	case tabTrending:
		b.WriteString(m.viewTrending())
	case tabDeveloper:
		b.WriteString(m.viewDeveloper())
	case tabLanguages:
		b.WriteString(m.viewLanguages())
	}

	b.WriteString("\n")
	b.WriteString(dashHelpStyle.Render("tab/←→ switch  l language  r reload  q quit"))
	return b.String()
}

func (m dashboardModel) viewTrending() string {
	header := StyleDim.Render("Language: ") + StyleNumber.Render(m.trending.Language) + "\n\n"
	switch {
	case m.reposErr != nil:
		return header + errorLine("Failed to fetch trending repositories", m.reposErr)
	case !m.loaded[tabTrending]:
		return header + StyleDim.Render("Loading...") + "\n"
	case len(m.repos) == 0:
		return header + StyleDim.Render("No repositories found") + "\n"
	}

	var b strings.Builder
	b.WriteString(header)
	for i, r := range m.repos {
		fmt.Fprintf(&b, "%2d. %s %s %s\n",
			i+1,
			StyleNumber.Render(r.FullName),
			StyleStars.Render(iconStar+" "+formatCompact(r.Stars)),
			StyleDim.Render(r.Language))
		b.WriteString("    " + StyleDim.Render(truncate(r.Description, max(m.width-6, 20))) + "\n")
	}
	return b.String()
}

func (m dashboardModel) viewDeveloper() string {
	switch {
	case m.user == "":
		return StyleDim.Render("No developer selected. Start with --user <login>.") + "\n"
	case m.devErr != nil:
		return errorLine(pkgerrors.UserMessage(m.devErr), nil)
	case m.dev == nil:
		return StyleDim.Render("Loading @"+m.user+"...") + "\n"
	}

	d := m.dev
	var b strings.Builder
	b.WriteString(StyleTitle.Render(d.Name) + " " + StyleDim.Render("@"+d.Login) + "\n")
	b.WriteString(StyleDim.Render(d.Bio) + "\n\n")
	for _, kv := range [][2]string{
		{"Location", d.Location},
		{"Repositories", formatCount(d.PublicRepos)},
		{"Followers", formatCount(d.Followers)},
		{"Following", formatCount(d.Following)},
		{"Profile", d.ProfileURL},
	} {
		b.WriteString(styleKey.Render(kv[0]) + " " + StyleValue.Render(kv[1]) + "\n")
	}
	return b.String()
}

func (m dashboardModel) viewLanguages() string {
	switch {
	case m.loading[tabLanguages] || !m.loaded[tabLanguages]:
		return StyleDim.Render(fmt.Sprintf("Counting repositories for %d languages...", len(m.popCfg.Languages))) + "\n"
	case m.langsErr != nil:
		return errorLine(pkgerrors.UserMessage(m.langsErr), nil)
	}
	return renderLanguageBars(m.langs, m.palette, min(barWidth, max(m.width-30, 10)))
}

func errorLine(msg string, err error) string {
	line := styleIconError.Render(iconError) + " " + msg
	if err != nil {
		line += StyleDim.Render(" (" + pkgerrors.UserMessage(err) + ")")
	}
	return line + "\n"
}
