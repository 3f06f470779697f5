// Package logger records parse sessions as newline delimited JSON events and
// summarizes them into reports.
package logger
