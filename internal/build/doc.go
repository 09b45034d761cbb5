// Package build provides the build pipeline that turns the content store
// into a static site. The build command, the serve command's initial build
// and every watch or scheduled rebuild go through Service.Run.
package build
