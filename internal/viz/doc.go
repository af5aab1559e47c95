// Package viz draws acoustic ray frames in the terminal and as GIFs.
//
// [Canvas] is a braille raster with two by four dots per character, and
// [Viewport] maps world coordinates onto it. [Preview] plots frame cells and
// boundary outlines, [Progress] is a Bubble Tea view fed by a [Feed]
// observer while a simulation runs, and [GIFRenderer] turns a finished run
// directory into an animation.
package viz
