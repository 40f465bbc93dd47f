// Package display owns the GTK4 side of notuid: the layer-shell window
// the notification stack is painted into, the cairo canvas and pango
// text shaper the render engine draws with, and the gdk-pixbuf icon
// decoder.
package display
