// @title           coursemate API
// @version         1.0
// @description     Маркетплейс, отзывы о курсах и расписания с push-уведомлениями.
// @host            localhost:4000
// @BasePath        /api/v1

package main

import "coursemate_backend/internal/app"

func main() {
	app.Run()
}
