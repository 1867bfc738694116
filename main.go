package main

import "github.com/voxlate/dubber-api/cmd"

// @title           Dubber API
// @version         1.0.0
// @description     Transcript review and video dubbing API with stem separation and voice cloning
// @contact.name    API Support
// @contact.url     https://github.com/voxlate/dubber-api
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
func main() {
	cmd.Execute()
}
