package seed

import (
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"petphoto_backend/internal/model"
)

// SeedSceneTemplates katalog şablonlarını yükler. İsme göre FirstOrCreate
// olduğundan tekrar çalıştırmak güvenlidir.
func SeedSceneTemplates(db *gorm.DB) {
	templates := []model.SceneTemplate{
		{
			Category:    "haimati",
			Name:        "百天照",
			Description: "温柔童趣的百天纪念肖像",
			Thumbnail:   "/assets/examples/haimati/baityanzhao/cat-siamese-v1.png",
			BasePrompt:  "百天照风格宠物肖像，婴儿百天纪念照氛围；可爱干净布景（奶油白/浅粉/浅蓝），柔光棚拍，浅景深，皮毛细节清晰；保持宠物原始身份特征（脸型、毛色、花纹不变）；photorealistic，high quality；no text, no watermark, no logo, no extra limbs",
		},
		{
			Category:    "document",
			Name:        "蓝底证件照",
			Description: "标准证件照蓝色背景",
			Thumbnail:   "/assets/examples/haimati/blue-id/cat-zhonghua-tianyuan-v1.png",
			BasePrompt:  "证件照风格宠物头像照，纯蓝背景，正面居中，头肩构图，光线均匀无阴影，细节清晰；保持宠物原始身份特征（脸型、毛色、花纹不变）；photorealistic；no text, no watermark, no logo, no extra limbs",
		},
		{
			Category:    "professional",
			Name:        "医生职业照",
			Description: "白大褂与听诊器的职业肖像",
			Thumbnail:   "/assets/examples/haimati/doctor/cat-zhonghua-tianyuan-v1.png",
			BasePrompt:  "医生职业照风格宠物肖像；穿白大褂，佩戴听诊器，背景为干净明亮的医院/诊室虚化场景；专业棚拍布光，眼神有高光；保持宠物原始身份特征（脸型、毛色、花纹不变）；photorealistic，high detail；no text, no watermark, no logo, no extra limbs",
		},
		{
			Category:    "professional",
			Name:        "学士服毕业照",
			Description: "学士服与毕业氛围",
			Thumbnail:   "/assets/examples/haimati/graduation/cat-siamese-v1.png",
			BasePrompt:  "学士服毕业照风格宠物肖像；穿学士服与学位帽，背景为校园/毕业典礼虚化场景，色彩明快；棚拍质感，浅景深，皮毛细节清晰；保持宠物原始身份特征（脸型、毛色、花纹不变）；photorealistic，high quality；no text, no watermark, no logo, no extra limbs",
		},
		{
			Category:    "culture",
			Name:        "唐装",
			Description: "传统唐装造型与喜庆氛围",
			Thumbnail:   "/assets/examples/haimati/tangzhuang/cat-ragdoll-v1.png",
			BasePrompt:  "唐装风格宠物肖像；穿精致唐装（立领、盘扣、织纹），配色典雅喜庆；背景为简洁中式元素（屏风/窗棂/灯笼虚化），暖色柔光；保持宠物原始身份特征（脸型、毛色、花纹不变）；photorealistic；no text, no watermark, no logo, no extra limbs",
		},
		{
			Category:    "professional",
			Name:        "白领西装照",
			Description: "商务正装的职业形象照",
			Thumbnail:   "/assets/examples/haimati/white-collar/cat-ragdoll-v1.png",
			BasePrompt:  "白领西装照风格宠物肖像；合身西装+衬衫+领带/领结，背景为干净商务灰/浅色渐变或写字楼虚化；棚拍布光，细节清晰；保持宠物原始身份特征（脸型、毛色、花纹不变）；photorealistic，high quality；no text, no watermark, no logo, no extra limbs",
		},
		{
			Category:    "culture",
			Name:        "日系可爱风",
			Description: "清新软萌的日系写真",
			Thumbnail:   "/assets/examples/haimati/japanese-kawaii/cat-siamese-v1.png",
			BasePrompt:  "日系可爱风宠物写真；清新低饱和配色，柔和自然光，少量可爱小道具点缀；构图干净，浅景深，毛发细节清晰；保持宠物原始身份特征（脸型、毛色、花纹不变）；photorealistic；no text, no watermark, no logo, no extra limbs",
		},
		{
			Category:    "haimati",
			Name:        "婚纱摄影",
			Description: "浪漫婚礼氛围大片",
			Thumbnail:   "/assets/examples/haimati/wedding/cat-ragdoll-v1.png",
			BasePrompt:  "婚纱摄影风格宠物写真；浪漫柔光，轻微逆光与轮廓光，背景为婚礼布景/花艺虚化；整体高级、干净、电影感；保持宠物原始身份特征（脸型、毛色、花纹不变）；photorealistic，high quality；no text, no watermark, no logo, no extra limbs",
		},
	}

	for _, template := range templates {
		template.ID = uuid.New().String()
		result := db.FirstOrCreate(&template, model.SceneTemplate{Name: template.Name})
		if result.Error != nil {
			log.Printf("Error creating template %s: %v", template.Name, result.Error)
		}
	}

	log.Println("Scene templates seeded successfully!")
}
