// file: utils/flag_generator.go
package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateFlag 为管理员生成一条随机静态 Flag
func GenerateFlag() string {
	part1 := strings.Replace(uuid.New().String(), "-", "", -1)[:12]
	part2 := strings.Replace(uuid.New().String(), "-", "", -1)[:12]
	return fmt.Sprintf("CTF{%s-%s}", part1, part2)
}
