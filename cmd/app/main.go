// @title Yak Adapter API
// @version 1.0.0
// @description API для управления анализаторами спектра по текстовым командам из таблицы и отправки снимков состояния в Kafka.
// @host localhost:8080
// @BasePath /api/v1
package main

import "github.com/iwtcode/yakAdapter/internal/app"

func main() {
	app.New().Run()
}
