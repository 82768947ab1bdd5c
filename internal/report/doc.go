// Package report renders store statistics for the stats command, either as
// plain text or as GitHub-flavored Markdown.
package report
