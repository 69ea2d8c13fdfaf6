// Package project holds the editable state of a score: the ordered list of
// images and where page breaks are allowed.
//
// [State] is an immutable value. It is only ever replaced, by applying an
// [Action] (a pure function from State to State) through a [Container]:
//
//	c := project.NewContainer(project.State{})
//	c.Apply(project.AddImage(img))
//	c.Apply(project.MoveImage(id, -1))
//	c.Apply(project.SetAllowWrap(id, false))
//
// Every action restores the invariant that the last image allows a page
// break, which the layout optimizer relies on.
//
// A [Project] wraps a state with its name, options and timestamps and is
// persisted through a [Store]: [FileStore] for the CLI and [RedisStore] for
// shared deployments.
package project
