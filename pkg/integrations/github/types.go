package github

import "time"

// Repository is a repository as shown in the trending list.
type Repository struct {
	ID          int64     `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	FullName    string    `json:"full_name" yaml:"full_name"`
	Description string    `json:"description" yaml:"description"`
	URL         string    `json:"url" yaml:"url"`
	Stars       int       `json:"stars" yaml:"stars"`
	Forks       int       `json:"forks" yaml:"forks"`
	Watchers    int       `json:"watchers" yaml:"watchers"`
	Language    string    `json:"language" yaml:"language"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// Developer is a public GitHub profile.
type Developer struct {
	Login       string    `json:"login" yaml:"login"`
	Name        string    `json:"name" yaml:"name"`
	AvatarURL   string    `json:"avatar_url" yaml:"avatar_url"`
	Bio         string    `json:"bio" yaml:"bio"`
	Location    string    `json:"location" yaml:"location"`
	Blog        string    `json:"blog,omitempty" yaml:"blog,omitempty"`
	PublicRepos int       `json:"public_repos" yaml:"public_repos"`
	Followers   int       `json:"followers" yaml:"followers"`
	Following   int       `json:"following" yaml:"following"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	ProfileURL  string    `json:"profile_url" yaml:"profile_url"`
}

// User represents the authenticated GitHub user.
type User struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Email     string `json:"email"`
}

// Quota is one rate-limit bucket.
type Quota struct {
	Limit     int       `json:"limit" yaml:"limit"`
	Remaining int       `json:"remaining" yaml:"remaining"`
	Reset     time.Time `json:"reset" yaml:"reset"`
}

// RateLimits holds the quotas relevant to DevPulse.
type RateLimits struct {
	Core   Quota `json:"core" yaml:"core"`
	Search Quota `json:"search" yaml:"search"`
}

// TrendingQuery selects repositories for the trending list.
type TrendingQuery struct {
	Language string // empty or "all" for every language
	MinStars int    // strictly more than this many stars
	PerPage  int    // number of repositories, at most 100
}

// apiSearchResponse is the /search/repositories payload.
type apiSearchResponse struct {
	TotalCount        int             `json:"total_count"`
	IncompleteResults bool            `json:"incomplete_results"`
	Items             []apiRepository `json:"items"`
}

type apiRepository struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description"`
	HTMLURL     string    `json:"html_url"`
	Stars       int       `json:"stargazers_count"`
	Forks       int       `json:"forks_count"`
	Watchers    int       `json:"watchers_count"`
	Language    string    `json:"language"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type apiUser struct {
	Login       string    `json:"login"`
	Name        string    `json:"name"`
	AvatarURL   string    `json:"avatar_url"`
	Bio         string    `json:"bio"`
	Location    string    `json:"location"`
	Blog        string    `json:"blog"`
	PublicRepos int       `json:"public_repos"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	CreatedAt   time.Time `json:"created_at"`
	HTMLURL     string    `json:"html_url"`
}

type apiRateLimit struct {
	Resources struct {
		Core   apiQuota `json:"core"`
		Search apiQuota `json:"search"`
	} `json:"resources"`
}

type apiQuota struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	Reset     int64 `json:"reset"`
}
