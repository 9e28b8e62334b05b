// Package extract implements the report modes of docscan.
//
// Each extractor fetches its entry page, walks the parsed tree with dom
// queries and produces a model.Table whose first row is the mode's fixed
// header. An entry page that cannot be fetched yields a nil table and no
// error: the failure is already logged by the fetcher and nothing is
// rendered. A page that lacks a required tag fails the mode with a
// *dom.StructuralError.
//
//   - WhatsNew lists the release notes of every Python version.
//   - LatestVersions lists documentation versions and their status.
//   - Download saves the A4 PDF documentation archive.
//   - PEP reconciles every proposal's status with the index legend.
package extract
