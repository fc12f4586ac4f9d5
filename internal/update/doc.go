// Package update checks a release feed for a newer build of this utility, downloads and
// verifies the artifact, and replaces the running binary after the user confirms.
//
// The feed is the latest.yml format published by electron-builder:
//
//	version: 1.2.0
//	files:
//	  - url: dsmodinstaller-1.2.0.exe
//	    sha512: <base64>
//	    size: 1234
//	path: dsmodinstaller-1.2.0.exe
//	sha512: <base64>
//	releaseDate: '2024-05-01T10:00:00.000Z'
//
// Update problems never reach the orchestrator: they are reported through Events.Error
// and logged.
package update
