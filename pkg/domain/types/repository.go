package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// RepoName identifies a GitHub repository as owner/name.
type RepoName struct {
	Owner string
	Name  string
}

// ParseRepoName parses "owner/name". Surrounding slashes and spaces are ignored.
func ParseRepoName(s string) (RepoName, error) {
	s = strings.Trim(strings.TrimSpace(s), "/")
	owner, name, ok := strings.Cut(s, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return RepoName{}, goerr.Wrap(ErrInvalidConfig, "repository must be owner/name", goerr.V("repository", s))
	}
	return RepoName{Owner: owner, Name: name}, nil
}

func (x RepoName) String() string {
	return x.Owner + "/" + x.Name
}
