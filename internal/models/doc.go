// Package models defines the domain entities shared by the playlist browsing pipeline.
//
// The package contains three categories of types:
//
// 1. Media descriptors: the typed results of a browse
//   - [Media] : A classified item (video, audio, image, generic) or a collection such as a playlist
//   - [Kind] : The descriptor kind, resolved in classification priority order
//   - [RawEntry] : An unclassified metadata tuple produced by a playlist parser for one line
//
// 2. Operation inputs and collaborators
//   - [Options] : Skip/count window, resolution flags and type filter for a browse
//   - [Caps] : Capability set a [Source] declares for an [Operation]
//   - [Source] : The media source a browse runs against
//   - [ParseEvent], [Attributes] : Wire types exchanged with the parsing engine and filesystem provider
//
// 3. Persistent entities
//   - [BrowseRecord] : History entry for a finished browse, stored by the repositories package
//
// Persistent entities implement the [Model] interface and are accessed through [Repository].
package models
