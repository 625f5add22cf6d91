package repository

import "strings"

// likeEscape is the ESCAPE character of every substring match.  It must
// quote the same way on MySQL and SQLite.
const likeEscape = "!"

var likeEscaper = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// containsPattern turns term into a LIKE pattern matching it as a literal
// substring.  Use it with ESCAPE '!'.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
