package model

// Contributor is an account credited with commits to a repository.
// Contributors are ordered by contribution count when fetched; the count
// itself is not retained.
type Contributor struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Link     string `json:"link"`
}

// Member is an account belonging to an organization.
type Member struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Link     string `json:"link"`
}
