package main

import (
	"os"

	"chatrelay/cmd"
)

// @title           ChatRelay API
// @version         1.0
// @description     无状态的对话转发服务，每次请求携带完整对话并返回追加回复后的对话
// @BasePath        /

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
