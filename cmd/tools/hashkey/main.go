package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// 生成 api_key 的 bcrypt 哈希, 填进配置的 auth.api_key_hash
func main() {
	if len(os.Args) != 2 {
		log.Fatal("usage: go run ./cmd/tools/hashkey <api-key>")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(os.Args[1]), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(string(hash))
}
